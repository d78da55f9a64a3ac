package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/format"
	"picxury_api/internal/services"
)

const clientNotFound = "Cliente no encontrado."

// ClientHandler lists and edits the photographer's clients
type ClientHandler struct {
	clients *services.ClientService
}

func NewClientHandler(clients *services.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type clientSummaryView struct {
	services.ClientSummary
	TotalPaidFormatted string `json:"total_paid_formatted"`
}

// List returns clients with session counts and total paid
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.clients.List(c.Request().Context(), photographerID(c))
	if err != nil {
		return err
	}

	views := make([]clientSummaryView, 0, len(clients))
	for _, cl := range clients {
		views = append(views, clientSummaryView{ClientSummary: cl, TotalPaidFormatted: format.Money(cl.TotalPaid)})
	}
	return ok(c, http.StatusOK, "", views)
}

type clientUpdateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=255"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
}

// Update edits a client; album emails follow an email change
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := idParam(c, "clientId", clientNotFound)
	if err != nil {
		return err
	}
	var req clientUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.clients.Update(c.Request().Context(), photographerID(c), id, services.ClientUpdate{
		Name:        req.Name,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return apiError(err, clientNotFound)
	}

	return ok(c, http.StatusOK, "Información del cliente actualizada correctamente.", client)
}
