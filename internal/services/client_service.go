package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"picxury_api/internal/models"
)

// ClientService manages the clients of a photographer
type ClientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db}
}

// ClientSummary is a client with per-photographer aggregates
type ClientSummary struct {
	models.Client
	PhotoSessionsCount     int64   `json:"photo_sessions_count"`
	PurchasedSessionsCount int64   `json:"purchased_sessions_count"`
	TotalPaid              float64 `json:"total_paid"`
}

// ClientUpdate is the editable part of a client
type ClientUpdate struct {
	Name        string
	LastName    string
	Email       string
	PhoneNumber string
}

// List returns clients with at least one active session with the
// photographer, newest client first
func (s *ClientService) List(ctx context.Context, photographerID uint) ([]ClientSummary, error) {
	db := s.db.WithContext(ctx)

	var clients []models.Client
	err := db.Where("id IN (?)",
		db.Model(&models.PhotoSession{}).
			Select("client_id").
			Where("photographer_id = ? AND status IN ?", photographerID, models.UpdatableSessionStatuses),
	).Order("created_at desc").Order("id desc").Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	if len(clients) == 0 {
		return []ClientSummary{}, nil
	}

	ids := make([]uint, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	var sessions []models.PhotoSession
	err = db.Select("id", "client_id", "status", "payment_status", "total_price").
		Where("photographer_id = ? AND client_id IN ?", photographerID, ids).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("client sessions: %w", err)
	}

	byClient := make(map[uint]*ClientSummary, len(clients))
	out := make([]ClientSummary, len(clients))
	for i, c := range clients {
		out[i] = ClientSummary{Client: c}
		byClient[c.ID] = &out[i]
	}
	for _, session := range sessions {
		summary := byClient[session.ClientID]
		summary.PhotoSessionsCount++
		if !purchased(session.Status) {
			continue
		}
		summary.PurchasedSessionsCount++
		if session.PaymentStatus == models.PaymentStatusPaid {
			summary.TotalPaid += session.TotalPrice
		}
	}
	return out, nil
}

// purchased excludes sessions that never became a real engagement
func purchased(status models.SessionStatus) bool {
	switch status {
	case models.SessionStatusRequested, models.SessionStatusRejected, models.SessionStatusAnnulled:
		return false
	}
	return true
}

// Update edits a client. When the email changes every album of the client's
// sessions follows it.
func (s *ClientService) Update(ctx context.Context, photographerID, clientID uint, in ClientUpdate) (*models.Client, error) {
	in.Email = strings.TrimSpace(in.Email)
	db := s.db.WithContext(ctx)

	var client models.Client
	err := db.Where("id = ? AND id IN (?)", clientID,
		db.Model(&models.PhotoSession{}).Select("client_id").Where("photographer_id = ?", photographerID),
	).First(&client).Error
	if err != nil {
		return nil, notFound(err, "client")
	}

	var taken int64
	if err := db.Model(&models.Client{}).Where("email = ? AND id <> ?", in.Email, client.ID).Count(&taken).Error; err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, NewValidationError("email", "El correo electrónico ya está en uso.")
	}

	emailChanged := client.Email != in.Email
	client.Name = in.Name
	client.LastName = in.LastName
	client.Email = in.Email
	client.PhoneNumber = in.PhoneNumber

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&client).Select("name", "last_name", "email", "phone_number").Updates(&client).Error; err != nil {
			return fmt.Errorf("update client: %w", err)
		}
		if !emailChanged {
			return nil
		}
		return tx.Model(&models.Album{}).
			Where("photo_session_id IN (?)", tx.Model(&models.PhotoSession{}).Select("id").Where("client_id = ?", client.ID)).
			Update("email", client.Email).Error
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}
