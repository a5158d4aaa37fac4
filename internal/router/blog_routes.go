package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/handler"
)

// RegisterBlogs registers the blog endpoints under /api/blogs.  Reads are
// public so guests can browse; every write requires a valid token.
func RegisterBlogs(e *echo.Echo, b *handler.BlogHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/api/blogs")
	g.GET("", b.GetAllBlogs)
	g.GET("/:id", b.GetSpecificBlog)

	g.POST("", b.CreateBlog, gate)
	g.PUT("/:id", b.UpdateBlog, gate)
	g.DELETE("/:id", b.DeleteBlog, gate)
}
