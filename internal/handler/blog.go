package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/blog-api/internal/apperr"
	"github.com/iliyamo/blog-api/internal/middleware"
	"github.com/iliyamo/blog-api/internal/model"
	"github.com/iliyamo/blog-api/internal/queue"
	"github.com/iliyamo/blog-api/internal/repository"
)

// Client-facing messages of the blog endpoints.
const (
	MsgBlogNotFound = "Blog with given id not found"
	MsgNotOwner     = "Unauthorized. Can only modify/delete your own blogs."
	MsgBlogUpdated  = "Updated blog successfully"
	MsgBlogDeleted  = "Blog deleted successfully"
)

// BlogStore is the persistence the blog endpoints need.
type BlogStore interface {
	Create(ctx context.Context, b *model.Blog) error
	GetByID(ctx context.Context, id uint64) (*model.Blog, error)
	List(ctx context.Context, f repository.BlogFilter) ([]*model.Blog, error)
	Update(ctx context.Context, b *model.Blog) error
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher receives blog lifecycle events after a write succeeded.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BlogEvent) error
}

// BlogHandler serves the blog CRUD endpoints.  Mutations are only allowed
// for the blog's author.
type BlogHandler struct {
	Blogs  BlogStore
	Events EventPublisher
	Log    *zap.Logger
}

func NewBlogHandler(b BlogStore, ev EventPublisher, log *zap.Logger) *BlogHandler {
	return &BlogHandler{Blogs: b, Events: ev, Log: log}
}

// blogReq is the body of POST and PUT.  PUT replaces every field.
type blogReq struct {
	Title    string   `json:"title" validate:"notblank,max=255"`
	Content  string   `json:"content" validate:"notblank"`
	Category string   `json:"category" validate:"notblank,max=100"`
	Tags     []string `json:"tags"`
}

func (r *blogReq) bind(c echo.Context) error {
	if err := c.Bind(r); err != nil {
		return apperr.Validation(MsgInvalidBody)
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Category = strings.TrimSpace(r.Category)
	r.Tags = cleanTags(r.Tags)
	return c.Validate(r)
}

// GetAllBlogs handles GET /api/blogs with the optional category and
// includedTags filters.  includedTags is comma separated and may repeat.
func (h *BlogHandler) GetAllBlogs(c echo.Context) error {
	f := repository.BlogFilter{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Tags:     cleanTags(strings.Split(strings.Join(c.QueryParams()["includedTags"], ","), ",")),
	}
	blogs, err := h.Blogs.List(c.Request().Context(), f)
	if err != nil {
		return apperr.Internal(err)
	}
	if blogs == nil {
		blogs = []*model.Blog{}
	}
	return c.JSON(http.StatusOK, blogs)
}

// GetSpecificBlog handles GET /api/blogs/:id.
func (h *BlogHandler) GetSpecificBlog(c echo.Context) error {
	b, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// CreateBlog handles POST /api/blogs.  The author is the acting user.
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthorized(middleware.MsgNoToken)
	}
	authorID, ok := model.ParseID(who.ID)
	if !ok {
		return apperr.Unauthorized(middleware.MsgInvalidToken)
	}
	var req blogReq
	if err := req.bind(c); err != nil {
		return err
	}

	b := &model.Blog{
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
	}
	if err := h.Blogs.Create(c.Request().Context(), b); err != nil {
		return apperr.Internal(err)
	}
	h.publish(c, queue.BlogCreated, b)
	return c.JSON(http.StatusCreated, b)
}

// UpdateBlog handles PUT /api/blogs/:id.  It answers with a confirmation
// message, not the updated document.
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	b, err := h.lookupOwned(c)
	if err != nil {
		return err
	}
	var req blogReq
	if err := req.bind(c); err != nil {
		return err
	}

	b.Title, b.Content, b.Category, b.Tags = req.Title, req.Content, req.Category, req.Tags
	if err := h.Blogs.Update(c.Request().Context(), b); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return apperr.NotFound(MsgBlogNotFound)
		}
		return apperr.Internal(err)
	}
	h.publish(c, queue.BlogUpdated, b)
	return c.JSON(http.StatusOK, echo.Map{"message": MsgBlogUpdated})
}

// DeleteBlog handles DELETE /api/blogs/:id.  A 204 carries no body, so
// the confirmation only goes to the log.
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	b, err := h.lookupOwned(c)
	if err != nil {
		return err
	}
	if err := h.Blogs.Delete(c.Request().Context(), b.ID); err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return apperr.NotFound(MsgBlogNotFound)
		}
		return apperr.Internal(err)
	}
	h.Log.Info(MsgBlogDeleted, zap.Uint64("blog_id", b.ID))
	h.publish(c, queue.BlogDeleted, b)
	return c.NoContent(http.StatusNoContent)
}

// lookup loads the blog named by the :id path parameter.  Ids that cannot
// be store ids are simply not found.
func (h *BlogHandler) lookup(c echo.Context) (*model.Blog, error) {
	id, ok := model.ParseID(c.Param("id"))
	if !ok {
		return nil, apperr.NotFound(MsgBlogNotFound)
	}
	b, err := h.Blogs.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogNotFound) {
			return nil, apperr.NotFound(MsgBlogNotFound)
		}
		return nil, apperr.Internal(err)
	}
	return b, nil
}

// lookupOwned is lookup plus the ownership check every mutation runs.
func (h *BlogHandler) lookupOwned(c echo.Context) (*model.Blog, error) {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil, apperr.Unauthorized(middleware.MsgNoToken)
	}
	b, err := h.lookup(c)
	if err != nil {
		return nil, err
	}
	if !b.OwnedBy(who) {
		return nil, apperr.Forbidden(MsgNotOwner)
	}
	return b, nil
}

func (h *BlogHandler) publish(c echo.Context, typ string, b *model.Blog) {
	if err := h.Events.Publish(c.Request().Context(), queue.NewBlogEvent(typ, b)); err != nil {
		h.Log.Warn("publish blog event failed",
			zap.String("type", typ),
			zap.Uint64("blog_id", b.ID),
			zap.Error(err))
	}
}

// cleanTags trims every tag and drops empty ones.  The result is never nil.
func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
