package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/logger"
	"picxury_api/internal/services"
)

// PaymentHandler serves online session payments
type PaymentHandler struct {
	payments *services.PaymentService
	appURL   string
}

func NewPaymentHandler(payments *services.PaymentService, appURL string) *PaymentHandler {
	return &PaymentHandler{payments: payments, appURL: strings.TrimRight(appURL, "/")}
}

// InitiatePayment creates or resumes the Snap transaction for an album's session
func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	albumID, err := idParam(c, "albumId", albumNotFound)
	if err != nil {
		return err
	}

	forceNew := c.QueryParam("force_new") == "true"
	finishURL := fmt.Sprintf("%s/album/%d", h.appURL, albumID)

	result, err := h.payments.InitiatePayment(c.Request().Context(), albumID, forceNew, finishURL)
	if err != nil {
		return apiError(err, albumNotFound)
	}

	return ok(c, http.StatusOK, "", result)
}

// MidtransCallback receives gateway notifications
func (h *PaymentHandler) MidtransCallback(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos.").SetInternal(err)
	}

	var notification services.CallbackNotification
	if err := json.Unmarshal(raw, &notification); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Datos inválidos.").SetInternal(err)
	}

	if err := h.payments.HandleCallback(c.Request().Context(), notification, raw); err != nil {
		logger.Log.Warnw("payment callback rejected", "order_id", notification.OrderID, "error", err)
		return apiError(err, "Sesión de fotos no encontrada.")
	}

	return ok(c, http.StatusOK, "ok", nil)
}
