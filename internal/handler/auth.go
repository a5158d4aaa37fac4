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
	"github.com/iliyamo/blog-api/internal/repository"
	"github.com/iliyamo/blog-api/internal/utils"
)

// Client-facing messages of the auth endpoints.
const (
	MsgUserExists         = "User with given email id already exists"
	MsgUserNotFound       = "No user with given email id found"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidBody        = "invalid request body"
	MsgPasswordTooLong    = "password must be at most 72 bytes"
)

// UserStore is the credential store the auth endpoints and the auth gate
// work against.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// TokenIssuer signs bearer tokens for user ids.
type TokenIssuer interface {
	Issue(userID string) (utils.AccessToken, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users      UserStore
	Tokens     TokenIssuer
	BcryptCost int
	Log        *zap.Logger
}

func NewAuthHandler(u UserStore, t TokenIssuer, bcryptCost int, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: u, Tokens: t, BcryptCost: bcryptCost, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name" validate:"notblank,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResp is returned by register and login.  The password never is.
type authResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Register: create user and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(MsgInvalidBody)
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = repository.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}
	if len(req.Password) > utils.MaxPasswordBytes {
		return apperr.Validation(MsgPasswordTooLong)
	}

	ctx := c.Request().Context()
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return apperr.AlreadyExists(MsgUserExists)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return apperr.Internal(err)
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return apperr.Validation(MsgPasswordTooLong)
		}
		return apperr.Internal(err)
	}
	u := &model.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := h.Users.Create(ctx, u); err != nil {
		// a concurrent registration can still win the unique index
		if errors.Is(err, repository.ErrEmailExists) {
			return apperr.AlreadyExists(MsgUserExists)
		}
		return apperr.Internal(err)
	}

	resp, err := h.respond(u)
	if err != nil {
		return err
	}
	h.Log.Info("user registered", zap.String("user_id", resp.ID))
	return c.JSON(http.StatusCreated, resp)
}

// Login: verify credentials and return a fresh token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation(MsgInvalidBody)
	}
	req.Email = repository.NormalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound(MsgUserNotFound)
		}
		return apperr.Internal(err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperr.InvalidCredentials(MsgInvalidCredentials)
	}

	resp, err := h.respond(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Me returns the identity the auth gate resolved for this request.
func (h *AuthHandler) Me(c echo.Context) error {
	who, ok := middleware.CurrentIdentity(c)
	if !ok {
		return apperr.Unauthorized(middleware.MsgNoToken)
	}
	return c.JSON(http.StatusOK, who)
}

func (h *AuthHandler) respond(u *model.User) (authResp, error) {
	id := u.Identity()
	tok, err := h.Tokens.Issue(id.ID)
	if err != nil {
		return authResp{}, apperr.Internal(err)
	}
	return authResp{ID: id.ID, Name: id.Name, Email: id.Email, Token: tok.Token}, nil
}
