package models

import (
	"time"

	"gorm.io/gorm"
)

// Client is the person a photo session is booked for. Clients are shared
// across photographers and identified by email.
type Client struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name        string `gorm:"type:varchar(255)" json:"name"`
	LastName    string `gorm:"type:varchar(255)" json:"last_name"`
	Email       string `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`

	// Relationships
	PhotoSessions []PhotoSession `gorm:"foreignKey:ClientID" json:"photo_sessions,omitempty"`
}

// FullName joins first and last name
func (c Client) FullName() string {
	return c.Name + " " + c.LastName
}
