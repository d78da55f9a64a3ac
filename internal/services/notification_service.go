package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"picxury_api/internal/logger"
	"picxury_api/internal/models"
)

// MarkNotificationsReadArgs are the arguments of the mark-as-read task
type MarkNotificationsReadArgs struct {
	IDs []uint `json:"ids"`
}

// NotificationService serves the photographer inbox
type NotificationService struct {
	db    *gorm.DB
	queue TaskEnqueuer
}

func NewNotificationService(db *gorm.DB, queue TaskEnqueuer) *NotificationService {
	return &NotificationService{db: db, queue: queue}
}

// List returns the photographer's notifications, newest first. Unread
// Selección notifications are queued to be marked read in the background,
// so this response may still show them unread.
func (s *NotificationService) List(ctx context.Context, photographerID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Preload("PhotoSession").
		Where("photographer_id = ?", photographerID).
		Order("created_at desc").
		Order("id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	var unread []uint
	for _, n := range notifications {
		if n.Type == models.NotificationTypeSelection && !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	if len(unread) > 0 && s.queue != nil {
		if err := s.queue.Enqueue(ctx, models.TaskMarkNotificationsRead, MarkNotificationsReadArgs{IDs: unread}); err != nil {
			logger.Log.Errorw("could not queue mark-as-read", "photographer_id", photographerID, "error", err)
		}
	}

	return notifications, nil
}

// NotificationDetail is a notification with the session it refers to
type NotificationDetail struct {
	Notification models.Notification
	Session      models.PhotoSession
}

// Show returns a notification with its session, client, type and services
func (s *NotificationService) Show(ctx context.Context, photographerID, notificationID uint) (*NotificationDetail, error) {
	db := s.db.WithContext(ctx)

	notification, err := s.findOwned(db, photographerID, notificationID)
	if err != nil {
		return nil, err
	}

	var session models.PhotoSession
	err = withLineItems(db, "").
		Preload("Client", unscoped).
		Preload("Type").
		First(&session, notification.PhotoSessionID).Error
	if err != nil {
		return nil, notFound(err, "photo session")
	}

	return &NotificationDetail{Notification: *notification, Session: session}, nil
}

// Decide records the photographer's answer to a session request. The
// notification is marked read and the session moves to Por realizar or
// Rechazada. The current session status is not checked.
func (s *NotificationService) Decide(ctx context.Context, photographerID, notificationID uint, decision models.PhotographerDecision) (*models.PhotoSession, error) {
	if decision != models.DecisionAccepted && decision != models.DecisionRejected {
		return nil, NewValidationError("decision", "La decisión debe ser accepted o rejected.")
	}

	var session *models.PhotoSession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notification, err := s.findOwned(tx, photographerID, notificationID)
		if err != nil {
			return err
		}
		if err := tx.Model(notification).Update("is_read", true).Error; err != nil {
			return err
		}

		session, err = findSession(tx, notification.PhotoSessionID)
		if err != nil {
			return err
		}
		session.PhotographerDecision = &decision
		session.Status = decision.ResultingStatus()
		return tx.Model(session).Updates(map[string]interface{}{
			"photographer_decision": decision,
			"status":                session.Status,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Infow("session request decided", "session_id", session.ID, "decision", decision)
	return session, nil
}

// MarkRead flags the given notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).Where("id IN ?", ids).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (s *NotificationService) findOwned(db *gorm.DB, photographerID, notificationID uint) (*models.Notification, error) {
	var notification models.Notification
	err := db.Where("id = ? AND photographer_id = ?", notificationID, photographerID).First(&notification).Error
	if err != nil {
		return nil, notFound(err, "notification")
	}
	return &notification, nil
}
