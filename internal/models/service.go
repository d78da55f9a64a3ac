package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceCategory classifies catalog services. It is assigned when the
// service is created so selection logic never depends on display names.
type ServiceCategory string

const (
	// ServiceCategoryProfessionalPhoto marks the service whose purchased
	// quantity is the number of photos a client must select.
	ServiceCategoryProfessionalPhoto ServiceCategory = "professional_photo"
	ServiceCategoryPhoto             ServiceCategory = "photo"
	ServiceCategoryEdition           ServiceCategory = "edition"
	ServiceCategoryOther             ServiceCategory = "other"
)

// Service is a catalog entry photographers can put a price on
type Service struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name     string          `gorm:"type:varchar(100)" json:"name"`
	Category ServiceCategory `gorm:"type:varchar(30);default:'other'" json:"category"`
}

// PhotographerService is a photographer's current price for a catalog service
type PhotographerService struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PhotographerID uint    `gorm:"index" json:"photographer_id"`
	ServiceID      uint    `gorm:"index" json:"service_id"`
	Price          float64 `gorm:"type:decimal(10,2)" json:"price"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID" json:"service"`
}

// PhotoSessionType is the kind of session (wedding, portrait, product...)
type PhotoSessionType struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name        string  `gorm:"type:varchar(100)" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}
