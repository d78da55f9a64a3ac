package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/middleware"
	"picxury_api/internal/services"
)

// Response is the JSON envelope of every API answer
type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func ok(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Response{Success: true, Message: message, Data: data})
}

// apiError turns service errors into HTTP errors. notFoundMsg is used for
// services.ErrNotFound.
func apiError(err error, notFoundMsg string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, verr.Fields).SetInternal(err)
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, notFoundMsg).SetInternal(err)
	case errors.Is(err, services.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "El recurso ya existe.").SetInternal(err)
	case errors.Is(err, services.ErrTooManyAttempts):
		return echo.NewHTTPError(http.StatusTooManyRequests, "Demasiados intentos. Inténtalo más tarde.").SetInternal(err)
	case errors.Is(err, services.ErrPaymentAlreadyMade):
		return echo.NewHTTPError(http.StatusConflict, "El pago ya fue realizado.").SetInternal(err)
	case errors.Is(err, services.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusForbidden, "Firma inválida.").SetInternal(err)
	}
	return err
}

// idParam parses a numeric path parameter. Non numeric ids cannot exist, so
// they answer with notFoundMsg.
func idParam(c echo.Context, name, notFoundMsg string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, notFoundMsg)
	}
	return uint(id), nil
}

// photographerID is the id of the authenticated photographer
func photographerID(c echo.Context) uint {
	if p := middleware.CurrentPhotographer(c); p != nil {
		return p.ID
	}
	return 0
}

// bindAndValidate binds the request body and runs struct validation
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos.").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return apiError(err, "")
	}
	return nil
}
