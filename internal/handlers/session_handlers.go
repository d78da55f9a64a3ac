package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

const sessionNotFound = "Sesión de fotos no encontrada."

// PhotoSessionHandler serves the session lifecycle endpoints
type PhotoSessionHandler struct {
	sessions *services.PhotoSessionService
	store    services.FileStore
}

func NewPhotoSessionHandler(sessions *services.PhotoSessionService, store services.FileStore) *PhotoSessionHandler {
	return &PhotoSessionHandler{sessions: sessions, store: store}
}

type orderLineRequest struct {
	PhotographerServiceID uint `json:"photographer_service_id" validate:"required"`
	Quantity              int  `json:"quantity" validate:"required,min=1"`
}

type bookRequest struct {
	PhotographerID     uint               `json:"photographer_id" validate:"required"`
	PhotoSessionTypeID uint               `json:"photo_session_type_id" validate:"required"`
	Source             string             `json:"source" validate:"required,max=20"`
	Title              string             `json:"title" validate:"max=100"`
	PaymentStatus      string             `json:"payment_status" validate:"omitempty,payment_status"`
	Date               string             `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime          string             `json:"start_time" validate:"required,hhmm"`
	EndTime            string             `json:"end_time" validate:"required,hhmm"`
	Department         string             `json:"department" validate:"required,max=255"`
	City               string             `json:"city" validate:"required,max=255"`
	Address            string             `json:"address" validate:"required,max=255"`
	PlaceDescription   *string            `json:"place_description" validate:"omitempty,max=500"`
	ClientEmail        string             `json:"client_email" validate:"required,email,max=255"`
	ClientName         string             `json:"client_name" validate:"required,max=255"`
	ClientLastName     string             `json:"client_last_name" validate:"required,max=255"`
	ClientPhone        string             `json:"client_phone" validate:"required,max=20"`
	Order              []orderLineRequest `json:"order" validate:"required,min=1,dive"`
}

// Book creates a session requested by a client or booked by the photographer
func (h *PhotoSessionHandler) Book(c echo.Context) error {
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	in := services.BookInput{
		PhotographerID:     req.PhotographerID,
		PhotoSessionTypeID: req.PhotoSessionTypeID,
		Source:             models.BookingSource(req.Source),
		Title:              req.Title,
		PaymentStatus:      models.PaymentStatus(req.PaymentStatus),
		Date:               date,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Department:         req.Department,
		City:               req.City,
		Address:            req.Address,
		PlaceDescription:   req.PlaceDescription,
		Client: services.ClientInput{
			Name:        req.ClientName,
			LastName:    req.ClientLastName,
			Email:       req.ClientEmail,
			PhoneNumber: req.ClientPhone,
		},
	}
	for _, line := range req.Order {
		in.Order = append(in.Order, services.OrderLine{
			PhotographerServiceID: line.PhotographerServiceID,
			Quantity:              line.Quantity,
		})
	}

	session, err := h.sessions.Book(c.Request().Context(), in)
	if err != nil {
		return apiError(err, sessionNotFound)
	}

	return ok(c, http.StatusCreated, "Sesión de fotos creada exitosamente.", map[string]interface{}{
		"photo_session": newSessionView(h.store, *session),
	})
}

// ConfirmPhotoSelection is called by the client once the selection is done
func (h *PhotoSessionHandler) ConfirmPhotoSelection(c echo.Context) error {
	id, err := idParam(c, "photoSessionId", sessionNotFound)
	if err != nil {
		return err
	}

	session, err := h.sessions.ConfirmPhotoSelection(c.Request().Context(), id)
	if err != nil {
		return apiError(err, sessionNotFound)
	}

	return ok(c, http.StatusOK, "Selección de fotos confirmada.", map[string]interface{}{
		"id":     session.ID,
		"status": session.Status,
	})
}

// List returns the photographer's session board with stats
func (h *PhotoSessionHandler) List(c echo.Context) error {
	list, err := h.sessions.ListForPhotographer(c.Request().Context(), photographerID(c))
	if err != nil {
		return err
	}

	views := make([]sessionView, 0, len(list.Sessions))
	for _, s := range list.Sessions {
		views = append(views, newSessionView(h.store, s))
	}

	return ok(c, http.StatusOK, "", map[string]interface{}{
		"photoSessions": views,
		"stats":         list.Stats,
	})
}

type generalInfoRequest struct {
	Title              string `json:"title" validate:"required,max=255"`
	Status             string `json:"status" validate:"required,session_status"`
	PaymentStatus      string `json:"payment_status" validate:"required,payment_status"`
	PhotoSessionTypeID uint   `json:"photo_session_type_id" validate:"required"`
}

// UpdateGeneralInfo edits title, status, payment status and type
func (h *PhotoSessionHandler) UpdateGeneralInfo(c echo.Context) error {
	id, err := idParam(c, "photoSessionId", sessionNotFound)
	if err != nil {
		return err
	}
	var req generalInfoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.sessions.UpdateGeneralInfo(c.Request().Context(), photographerID(c), id, services.GeneralInfoInput{
		Title:              req.Title,
		Status:             models.SessionStatus(req.Status),
		PaymentStatus:      models.PaymentStatus(req.PaymentStatus),
		PhotoSessionTypeID: req.PhotoSessionTypeID,
	})
	if err != nil {
		return apiError(err, sessionNotFound)
	}

	return ok(c, http.StatusOK, "Información general de la sesión actualizada exitosamente.", map[string]interface{}{
		"photo_session": newSessionView(h.store, *session),
	})
}

type scheduleRequest struct {
	Date             string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime        string  `json:"start_time" validate:"required,hhmm"`
	EndTime          string  `json:"end_time" validate:"required,hhmm"`
	Department       string  `json:"department" validate:"required,max=255"`
	City             string  `json:"city" validate:"required,max=255"`
	Address          string  `json:"address" validate:"required,max=255"`
	PlaceDescription *string `json:"place_description" validate:"omitempty,max=500"`
}

// UpdateDateAndLocation reschedules a session
func (h *PhotoSessionHandler) UpdateDateAndLocation(c echo.Context) error {
	id, err := idParam(c, "photoSessionId", sessionNotFound)
	if err != nil {
		return err
	}
	var req scheduleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	session, err := h.sessions.UpdateDateAndLocation(c.Request().Context(), photographerID(c), id, services.ScheduleInput{
		Date:             date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Department:       req.Department,
		City:             req.City,
		Address:          req.Address,
		PlaceDescription: req.PlaceDescription,
	})
	if err != nil {
		return apiError(err, sessionNotFound)
	}

	return ok(c, http.StatusOK, "Fecha y ubicación de la sesión actualizadas exitosamente.", map[string]interface{}{
		"photo_session": newSessionView(h.store, *session),
	})
}

// Cancel annuls a session
func (h *PhotoSessionHandler) Cancel(c echo.Context) error {
	return h.changeStatus(c, h.sessions.Cancel, "Sesión de fotos cancelada exitosamente.")
}

// Restore brings an annulled session back to Por realizar
func (h *PhotoSessionHandler) Restore(c echo.Context) error {
	return h.changeStatus(c, h.sessions.Restore, "Sesión de fotos restaurada exitosamente.")
}

type statusChange func(ctx context.Context, photographerID, sessionID uint) (*models.PhotoSession, error)

func (h *PhotoSessionHandler) changeStatus(c echo.Context, change statusChange, message string) error {
	id, err := idParam(c, "photoSessionId", sessionNotFound)
	if err != nil {
		return err
	}

	session, err := change(c.Request().Context(), photographerID(c), id)
	if err != nil {
		return apiError(err, "No se encontró la sesión de fotos o no pertenece al fotógrafo.")
	}

	return ok(c, http.StatusOK, message, map[string]interface{}{
		"id":     session.ID,
		"status": session.Status,
	})
}
