package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/blog-api/internal/apperr"
)

// genericMessage is the top-level message of every error body.
const genericMessage = "Something went wrong"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ErrorHandler is the single place where failures become HTTP responses.
// Classified errors carry their own status, echo's HTTPErrors (unknown
// route, wrong method) keep theirs and anything else is a 500 whose cause
// is logged but not shown.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, detail := classify(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
				zap.NamedError("cause", errors.Unwrap(err)),
			)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, ErrorResponse{Message: genericMessage, Error: detail})
		}
		if werr != nil {
			log.Error("write error response", zap.Error(werr))
		}
	}
}

func classify(err error) (int, string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.Kind.Status(), ae.Error()
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, fmt.Sprint(he.Message)
	}
	return http.StatusInternalServerError, "internal server error"
}
