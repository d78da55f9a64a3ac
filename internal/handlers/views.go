package handlers

import (
	"time"

	"picxury_api/internal/format"
	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

// Response views. Money, dates and clock times are formatted here and
// nowhere else.

type photoView struct {
	ID           uint    `json:"id"`
	AlbumID      uint    `json:"album_id"`
	URL          string  `json:"url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	IsSelected   bool    `json:"is_selected"`
	EditionType  *string `json:"edition_type"`
	CreatedAt    string  `json:"created_at"`
}

func newPhotoView(store services.FileStore, p models.AlbumPhoto) photoView {
	return photoView{
		ID:           p.ID,
		AlbumID:      p.AlbumID,
		URL:          store.URL(p.URL),
		ThumbnailURL: store.URL(p.ThumbnailURL),
		IsSelected:   p.IsSelected,
		EditionType:  p.EditionType,
		CreatedAt:    format.Date(p.CreatedAt),
	}
}

func newPhotoViews(store services.FileStore, photos []models.AlbumPhoto) []photoView {
	out := make([]photoView, 0, len(photos))
	for _, p := range photos {
		out = append(out, newPhotoView(store, p))
	}
	return out
}

type lineItemView struct {
	ID                    uint   `json:"id"`
	PhotographerServiceID uint   `json:"photographer_service_id"`
	ServiceName           string `json:"service_name"`
	Quantity              int    `json:"quantity"`
	UnitPrice             string `json:"unit_price"`
	Subtotal              string `json:"subtotal"`
}

func newLineItemViews(lines []models.PhotoSessionPhotographerService) []lineItemView {
	out := make([]lineItemView, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineItemView{
			ID:                    l.ID,
			PhotographerServiceID: l.PhotographerServiceID,
			ServiceName:           l.PhotographerService.Service.Name,
			Quantity:              l.Quantity,
			UnitPrice:             format.Money(l.UnitPrice),
			Subtotal:              format.Money(l.Subtotal()),
		})
	}
	return out
}

type albumSummaryView struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	Code        string      `json:"code"`
	TotalPhotos int         `json:"total_photos"`
	Photos      []photoView `json:"photos"`
}

// albumPreviewSize is how many photos the session board shows per album
const albumPreviewSize = 3

func newAlbumSummaryView(store services.FileStore, a *models.Album) *albumSummaryView {
	if a == nil {
		return nil
	}
	preview := a.Photos
	if len(preview) > albumPreviewSize {
		preview = preview[:albumPreviewSize]
	}
	return &albumSummaryView{
		ID:          a.ID,
		Email:       a.Email,
		Code:        a.Code,
		TotalPhotos: len(a.Photos),
		Photos:      newPhotoViews(store, preview),
	}
}

type sessionView struct {
	ID                   uint                         `json:"id"`
	PhotographerID       uint                         `json:"photographer_id"`
	ClientID             uint                         `json:"client_id"`
	PhotoSessionTypeID   uint                         `json:"photo_session_type_id"`
	Title                string                       `json:"title"`
	Status               models.SessionStatus         `json:"status"`
	PaymentStatus        models.PaymentStatus         `json:"payment_status"`
	PhotographerDecision *models.PhotographerDecision `json:"photographer_decision"`
	TotalPrice           string                       `json:"total_price"`
	Date                 string                       `json:"date"`
	StartTime            string                       `json:"start_time"`
	EndTime              string                       `json:"end_time"`
	Department           string                       `json:"department"`
	City                 string                       `json:"city"`
	Address              string                       `json:"address"`
	PlaceDescription     *string                      `json:"place_description"`
	Client               *models.Client               `json:"client,omitempty"`
	Type                 *models.PhotoSessionType     `json:"type,omitempty"`
	Services             []lineItemView               `json:"services"`
	Album                *albumSummaryView            `json:"album,omitempty"`
}

func newSessionView(store services.FileStore, s models.PhotoSession) sessionView {
	return sessionView{
		ID:                   s.ID,
		PhotographerID:       s.PhotographerID,
		ClientID:             s.ClientID,
		PhotoSessionTypeID:   s.PhotoSessionTypeID,
		Title:                s.Title,
		Status:               s.Status,
		PaymentStatus:        s.PaymentStatus,
		PhotographerDecision: s.PhotographerDecision,
		TotalPrice:           format.Money(s.TotalPrice),
		Date:                 format.Date(s.Date),
		StartTime:            format.ClockTime(s.StartTime),
		EndTime:              format.ClockTime(s.EndTime),
		Department:           s.Department,
		City:                 s.City,
		Address:              s.Address,
		PlaceDescription:     s.PlaceDescription,
		Client:               s.Client,
		Type:                 s.Type,
		Services:             newLineItemViews(s.Services),
		Album:                newAlbumSummaryView(store, s.Album),
	}
}

type moneyView struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

func newMoneyView(amount float64) moneyView {
	return moneyView{Amount: amount, Formatted: format.MoneyCOP(amount)}
}

func dateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
