package models

import (
	"time"
)

// MovementType is either income or expense
type MovementType string

const (
	MovementTypeIncome  MovementType = "ingreso"
	MovementTypeExpense MovementType = "gasto"
)

// SessionPaymentCategory is the category of income generated by a paid session
const SessionPaymentCategory = "pago-sesion-fotografica"

// FinancialMovement is a ledger entry of a photographer
type FinancialMovement struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PhotographerID uint         `gorm:"index" json:"photographer_id"`
	Type           MovementType `gorm:"type:varchar(50)" json:"type"`
	Category       string       `gorm:"type:varchar(100)" json:"category"`
	Amount         float64      `gorm:"type:decimal(10,2)" json:"amount"`
	Detail         string       `gorm:"type:varchar(255)" json:"detail"`
	PhotoSessionID *uint        `gorm:"index" json:"photo_session_id"`
}
