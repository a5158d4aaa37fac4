package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication and
// do not belong to a resource: the health check and the API banner.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring probe this endpoint.
	e.GET("/healthz", handler.Health)
	e.GET("/", handler.Root)
}

// RegisterAuth registers the account endpoints under /api/user.  Register
// and login are open; GET /api/user runs behind gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/api/user")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.GET("", a.Me, gate)
}
