package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/logger"
)

// ValidationMessage is the message of every 422 response
const ValidationMessage = "Error de validación"

type errorBody struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// CustomErrorHandler renders every error as the JSON envelope. An
// *echo.HTTPError whose message is a map[string][]string becomes a
// validation response; any other error is a 500.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	body := errorBody{Message: "Ocurrió un error inesperado. Inténtalo de nuevo más tarde."}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch msg := he.Message.(type) {
		case string:
			if msg != "" {
				body.Message = msg
			}
		case map[string][]string:
			body.Message = ValidationMessage
			body.Errors = msg
		default:
			body.Message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Log.Errorw("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", code,
			"error", err,
		)
	} else if he != nil && he.Internal != nil {
		logger.Log.Infow("request rejected",
			"path", c.Request().URL.Path,
			"status", code,
			"error", he.Internal,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, body)
	}
	if writeErr != nil {
		logger.Log.Errorw("failed to write error response", "error", writeErr)
	}
}
