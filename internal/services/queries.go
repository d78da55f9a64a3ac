package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"picxury_api/internal/models"
)

// TaskEnqueuer queues background work for the worker process
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, taskName string, args interface{}) error
}

func unscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// withLineItems preloads purchased lines with their catalog service. Lines
// keep pointing at services the photographer removed later.
func withLineItems(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"Services.PhotographerService", unscoped).
		Preload(prefix+"Services.PhotographerService.Service", unscoped)
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func findSession(db *gorm.DB, sessionID uint) (*models.PhotoSession, error) {
	var session models.PhotoSession
	if err := db.First(&session, sessionID).Error; err != nil {
		return nil, notFound(err, "photo session")
	}
	return &session, nil
}

func findOwnedSession(db *gorm.DB, photographerID, sessionID uint) (*models.PhotoSession, error) {
	var session models.PhotoSession
	err := db.Where("id = ? AND photographer_id = ?", sessionID, photographerID).First(&session).Error
	if err != nil {
		return nil, notFound(err, "photo session")
	}
	return &session, nil
}

func ownedAlbums(db *gorm.DB, photographerID uint) *gorm.DB {
	return db.Joins("JOIN photo_sessions ON photo_sessions.id = albums.photo_session_id AND photo_sessions.deleted_at IS NULL").
		Where("photo_sessions.photographer_id = ?", photographerID)
}

func findOwnedAlbum(db *gorm.DB, photographerID, albumID uint) (*models.Album, error) {
	var album models.Album
	if err := ownedAlbums(db, photographerID).Where("albums.id = ?", albumID).First(&album).Error; err != nil {
		return nil, notFound(err, "album")
	}
	return &album, nil
}

// syncSessionLedger keeps exactly one income movement for a paid session and
// none for an unpaid one
func syncSessionLedger(tx *gorm.DB, session *models.PhotoSession) error {
	scope := tx.Where("photo_session_id = ? AND type = ?", session.ID, models.MovementTypeIncome)

	if session.PaymentStatus != models.PaymentStatusPaid {
		if err := scope.Delete(&models.FinancialMovement{}).Error; err != nil {
			return fmt.Errorf("delete session income: %w", err)
		}
		return nil
	}

	var count int64
	if err := scope.Model(&models.FinancialMovement{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count session income: %w", err)
	}
	if count > 0 {
		return nil
	}

	sessionID := session.ID
	movement := models.FinancialMovement{
		PhotographerID: session.PhotographerID,
		Type:           models.MovementTypeIncome,
		Category:       models.SessionPaymentCategory,
		Amount:         session.TotalPrice,
		Detail:         fmt.Sprintf("Pago por sesión fotográfica #%d", session.ID),
		PhotoSessionID: &sessionID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return fmt.Errorf("create session income: %w", err)
	}
	return nil
}
