package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// ErrorHandler maps handler errors to responses: validation errors become a
// plain text 400, gateway errors a 500 carrying the host's payload, and
// persistence errors a 500 with a generic message. Causes are logged only.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, text := render(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.String("error", err.Error()),
			)
		}

		var writeErr error
		switch {
		case c.Request().Method == http.MethodHead:
			writeErr = c.NoContent(status)
		case body == nil:
			writeErr = c.String(status, text)
		default:
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error("failed to write error response", slog.String("error", writeErr.Error()))
		}
	}
}

// StatusOf returns the status code ErrorHandler would write for err
func StatusOf(err error) int {
	status, _, _ := render(err)
	return status
}

func render(err error) (status int, body map[string]interface{}, text string) {
	if appErr, ok := models.AsAppError(err); ok {
		if appErr.Kind == models.KindValidation {
			return appErr.Status(), nil, appErr.Message
		}
		return appErr.Status(), map[string]interface{}{"error": appErr.Payload()}, ""
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, map[string]interface{}{"error": msg}, ""
	}

	return http.StatusInternalServerError, map[string]interface{}{"error": http.StatusText(http.StatusInternalServerError)}, ""
}
