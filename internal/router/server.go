package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/blog-api/internal/handler"
	"github.com/iliyamo/blog-api/internal/middleware"
	"github.com/iliyamo/blog-api/internal/service"
	"github.com/iliyamo/blog-api/internal/utils"
)

// Deps are the collaborators NewServer wires into the handlers.
type Deps struct {
	Log        *zap.Logger
	Users      handler.UserStore
	Blogs      handler.BlogStore
	Tokens     *utils.TokenIssuer
	Events     handler.EventPublisher
	BcryptCost int
}

// NewServer builds the Echo instance with the middleware chain, the
// centralized error responder and every route registered.
func NewServer(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = service.NopPublisher{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.CORS())
	e.Use(middleware.RequestLogger(d.Log))

	gate := middleware.JWTAuth(d.Tokens, d.Users)

	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(d.Users, d.Tokens, d.BcryptCost, d.Log), gate)
	RegisterBlogs(e, handler.NewBlogHandler(d.Blogs, d.Events, d.Log), gate)
	return e
}
