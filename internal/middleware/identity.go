package middleware

// identity.go holds the context plumbing between JWTAuth and the handlers
// that need the acting user.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/model"
)

const identityKey = "identity"

// CurrentIdentity returns the identity JWTAuth attached to c.  ok is false
// on routes the gate does not cover.
func CurrentIdentity(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(identityKey).(model.Identity)
	if !ok || id.ID == "" {
		return model.Identity{}, false
	}
	return id, true
}

// SetIdentity attaches id to c.
func SetIdentity(c echo.Context, id model.Identity) {
	c.Set(identityKey, id)
}

// userID returns the acting user's id for log fields, "guest" when the
// request is unauthenticated.
func userID(c echo.Context) string {
	if id, ok := CurrentIdentity(c); ok {
		return id.ID
	}
	return "guest"
}
