package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/format"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

const notificationNotFound = "Notificación no encontrada."

// NotificationHandler serves the photographer inbox
type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type notificationView struct {
	ID             uint                    `json:"id"`
	PhotoSessionID uint                    `json:"photo_session_id"`
	Type           models.NotificationType `json:"type"`
	Title          string                  `json:"title"`
	IsRead         bool                    `json:"is_read"`
	CreatedAt      string                  `json:"created_at"`
	SessionTitle   string                  `json:"session_title,omitempty"`
	SessionStatus  models.SessionStatus    `json:"session_status,omitempty"`
}

// List returns notifications newest first. Unread Selección notifications
// are marked read in the background.
func (h *NotificationHandler) List(c echo.Context) error {
	notifications, err := h.notifications.List(c.Request().Context(), photographerID(c))
	if err != nil {
		return err
	}

	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		v := notificationView{
			ID:             n.ID,
			PhotoSessionID: n.PhotoSessionID,
			Type:           n.Type,
			Title:          n.Title,
			IsRead:         n.IsRead,
			CreatedAt:      format.Date(n.CreatedAt),
		}
		if n.PhotoSession != nil {
			v.SessionTitle = n.PhotoSession.Title
			v.SessionStatus = n.PhotoSession.Status
		}
		views = append(views, v)
	}

	return ok(c, http.StatusOK, "", views)
}

// Show returns a notification with the session it refers to
func (h *NotificationHandler) Show(c echo.Context) error {
	id, err := idParam(c, "notificationId", notificationNotFound)
	if err != nil {
		return err
	}

	detail, err := h.notifications.Show(c.Request().Context(), photographerID(c), id)
	if err != nil {
		return apiError(err, notificationNotFound)
	}

	s := detail.Session
	lines := make([]map[string]interface{}, 0, len(s.Services))
	for _, line := range s.Services {
		lines = append(lines, map[string]interface{}{
			"id":           line.ID,
			"quantity":     line.Quantity,
			"unit_price":   format.Money(line.UnitPrice),
			"price":        format.Money(line.Subtotal()),
			"service_name": line.PhotographerService.Service.Name,
		})
	}

	data := map[string]interface{}{
		"notification": map[string]interface{}{
			"id":      detail.Notification.ID,
			"type":    detail.Notification.Type,
			"title":   detail.Notification.Title,
			"is_read": detail.Notification.IsRead,
		},
		"session": map[string]interface{}{
			"id":                s.ID,
			"status":            s.Status,
			"total_price":       format.Money(s.TotalPrice),
			"payment_status":    s.PaymentStatus,
			"title":             s.Title,
			"date":              format.Date(s.Date),
			"start_time":        format.ClockTime(s.StartTime),
			"end_time":          format.ClockTime(s.EndTime),
			"department":        s.Department,
			"city":              s.City,
			"address":           s.Address,
			"place_description": s.PlaceDescription,
		},
		"services": lines,
	}
	if s.Client != nil {
		data["client"] = map[string]interface{}{
			"id":    s.Client.ID,
			"name":  s.Client.FullName(),
			"email": s.Client.Email,
			"phone": s.Client.PhoneNumber,
		}
	}
	if s.Type != nil {
		data["type"] = s.Type
	}

	return ok(c, http.StatusOK, "", data)
}

type decisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected"`
}

// Decide accepts or rejects the session request behind a notification
func (h *NotificationHandler) Decide(c echo.Context) error {
	id, err := idParam(c, "notificationId", notificationNotFound)
	if err != nil {
		return err
	}
	var req decisionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	decision := models.PhotographerDecision(req.Decision)
	session, err := h.notifications.Decide(c.Request().Context(), photographerID(c), id, decision)
	if err != nil {
		return apiError(err, notificationNotFound)
	}

	verb := "rechazada"
	if decision == models.DecisionAccepted {
		verb = "aceptada"
	}
	return ok(c, http.StatusOK, "La sesión ha sido "+verb+" correctamente.", map[string]interface{}{
		"id":     session.ID,
		"status": session.Status,
	})
}
