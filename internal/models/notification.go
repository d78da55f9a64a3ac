package models

import (
	"time"
)

// NotificationType distinguishes session requests from confirmed selections
type NotificationType string

const (
	NotificationTypeRequest   NotificationType = "Solicitud"
	NotificationTypeSelection NotificationType = "Selección"
)

// Notification is an in-app message for the photographer about a session
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PhotographerID uint             `gorm:"index" json:"photographer_id"`
	PhotoSessionID uint             `gorm:"index" json:"photo_session_id"`
	Type           NotificationType `gorm:"type:varchar(50)" json:"type"`
	Title          string           `gorm:"type:varchar(100)" json:"title"`
	IsRead         bool             `gorm:"default:false" json:"is_read"`

	// Relationships
	PhotoSession *PhotoSession `gorm:"foreignKey:PhotoSessionID" json:"photo_session,omitempty"`
}
