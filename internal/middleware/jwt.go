package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-api/internal/apperr"
	"github.com/iliyamo/blog-api/internal/model"
	"github.com/iliyamo/blog-api/internal/repository"
)

// Messages returned by the gate.
const (
	MsgNoToken      = "Not authorized, no Bearer token"
	MsgInvalidToken = "Not authorized, invalid token"
)

// TokenVerifier turns a raw bearer token into the user id it was issued for.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// UserLookup resolves a user id to its stored record.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// JWTAuth returns an Echo middleware that requires a valid Bearer token,
// loads the user it names and stores the resulting Identity in the context
// for downstream handlers (see CurrentIdentity).  Failures are returned as
// apperr errors so the central error handler renders them.
func JWTAuth(tokens TokenVerifier, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return apperr.Unauthorized(MsgNoToken)
			}

			sub, err := tokens.Verify(raw)
			if err != nil {
				return apperr.Unauthorized(MsgInvalidToken)
			}
			id, ok := model.ParseID(sub)
			if !ok {
				return apperr.Unauthorized(MsgInvalidToken)
			}

			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return apperr.Unauthorized(MsgInvalidToken)
				}
				return apperr.Internal(err)
			}

			SetIdentity(c, u.Identity())
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.  The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
