package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chanotai/library-lending/internal/errs"
	"github.com/chanotai/library-lending/internal/model"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, model.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondCount(c echo.Context, count int, data interface{}) error {
	return c.JSON(http.StatusOK, model.Response{
		Success: true,
		Count:   &count,
		Data:    data,
	})
}

// httpError maps domain sentinels onto the error taxonomy.
func httpError(err error) error {
	var code int
	switch {
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrBookNotFound),
		errors.Is(err, errs.ErrUserNotFound),
		errors.Is(err, errs.ErrTxNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidCredentials):
		code = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, errs.ErrUsernameTaken),
		errors.Is(err, errs.ErrOutOfStock),
		errors.Is(err, errs.ErrAlreadyBorrowed),
		errors.Is(err, errs.ErrAlreadyReturned):
		code = http.StatusConflict
	default:
		code = http.StatusInternalServerError
	}
	return echo.NewHTTPError(code, err.Error())
}

// newHTTPErrorHandler renders every failure as the response envelope.
// No stack traces cross the boundary.
func newHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		if code == http.StatusInternalServerError {
			log.Error("request failed", zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, model.Response{Success: false, Message: message})
	}
}
