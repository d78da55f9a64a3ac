package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/models"
	"picxury_api/internal/services"
	"picxury_api/internal/tasks"
)

// ContactHandler queues messages from the public contact form
type ContactHandler struct {
	queue services.TaskEnqueuer
}

func NewContactHandler(queue services.TaskEnqueuer) *ContactHandler {
	return &ContactHandler{queue: queue}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
}

// Send queues the message for delivery by the worker
func (h *ContactHandler) Send(c echo.Context) error {
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.queue.Enqueue(c.Request().Context(), models.TaskSendContactMessage, tasks.ContactMessageArgs{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Mensaje enviado correctamente", nil)
}
