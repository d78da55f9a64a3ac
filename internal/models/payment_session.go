package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PaymentSession is one online payment attempt for a photo session
type PaymentSession struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PhotoSessionID   uint            `gorm:"index" json:"photo_session_id"`
	PaymentGateway   PaymentGateway  `gorm:"type:varchar(50);not null" json:"payment_gateway"`
	OrderID          string          `gorm:"type:varchar(100);index" json:"order_id"`
	Amount           float64         `gorm:"type:decimal(10,2)" json:"amount"`
	IsActive         bool            `gorm:"default:true" json:"is_active"`
	RequestMetadata  json.RawMessage `gorm:"type:jsonb" json:"request_metadata"`
	ResponseMetadata json.RawMessage `gorm:"type:jsonb" json:"response_metadata"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}
