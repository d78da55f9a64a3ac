package models

import (
	"time"

	"gorm.io/gorm"
)

// Photographer is an account that offers services and owns photo sessions
type Photographer struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// FirebaseUID links the photographer to its Firebase Auth identity
	FirebaseUID    string `gorm:"type:varchar(128);uniqueIndex" json:"-"`
	Name           string `gorm:"type:varchar(100)" json:"name"`
	LastName       string `gorm:"type:varchar(100)" json:"last_name"`
	Email          string `gorm:"type:varchar(255)" json:"email"`
	PhoneNumber    string `gorm:"type:varchar(15)" json:"phone_number"`
	Department     string `gorm:"type:varchar(100)" json:"department"`
	City           string `gorm:"type:varchar(100)" json:"city"`
	ProfilePicture string `gorm:"type:varchar(255)" json:"profile_picture"`
	Active         bool   `gorm:"default:true" json:"active"`

	// Relationships
	Services []PhotographerService `gorm:"foreignKey:PhotographerID" json:"services,omitempty"`
}

// FullName joins first and last name
func (p Photographer) FullName() string {
	return p.Name + " " + p.LastName
}
