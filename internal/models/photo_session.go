package models

import (
	"time"

	"gorm.io/gorm"
)

// SessionStatus is the lifecycle state of a photo session
type SessionStatus string

const (
	SessionStatusRequested SessionStatus = "Solicitada"
	SessionStatusToDo      SessionStatus = "Por realizar"
	SessionStatusUploading SessionStatus = "Subiendo"
	SessionStatusSelection SessionStatus = "Selección"
	SessionStatusWaiting   SessionStatus = "Espera"
	SessionStatusCompleted SessionStatus = "Completada"
	SessionStatusRejected  SessionStatus = "Rechazada"
	SessionStatusAnnulled  SessionStatus = "Anulada"
)

// UpdatableSessionStatuses are the only statuses the general info update may
// set. Solicitada, Rechazada and Anulada have dedicated operations.
var UpdatableSessionStatuses = []SessionStatus{
	SessionStatusToDo,
	SessionStatusUploading,
	SessionStatusSelection,
	SessionStatusWaiting,
	SessionStatusCompleted,
}

// IsUpdatable reports whether the general info update may set this status
func (s SessionStatus) IsUpdatable() bool {
	for _, st := range UpdatableSessionStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsDone reports whether the session was already shot
func (s SessionStatus) IsDone() bool {
	switch s {
	case SessionStatusUploading, SessionStatusSelection, SessionStatusWaiting, SessionStatusCompleted:
		return true
	}
	return false
}

// PaymentStatus tracks whether the client paid the session
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pendiente"
	PaymentStatusPaid    PaymentStatus = "Pagada"
)

// IsValid reports whether the value is a known payment status
func (p PaymentStatus) IsValid() bool {
	return p == PaymentStatusPending || p == PaymentStatusPaid
}

// PhotographerDecision is the answer to a client's session request
type PhotographerDecision string

const (
	DecisionAccepted PhotographerDecision = "accepted"
	DecisionRejected PhotographerDecision = "rejected"
)

// BookingSource tells who created the session
type BookingSource string

const (
	BookingSourceClient       BookingSource = "client"
	BookingSourcePhotographer BookingSource = "photographer"
)

// InitialStatus returns the status a freshly booked session starts in.
// Anything that is not a client request is treated as a direct booking.
func (b BookingSource) InitialStatus() SessionStatus {
	if b == BookingSourceClient {
		return SessionStatusRequested
	}
	return SessionStatusToDo
}

// ResultingStatus is the status a requested session moves to after the
// photographer answers
func (d PhotographerDecision) ResultingStatus() SessionStatus {
	if d == DecisionAccepted {
		return SessionStatusToDo
	}
	return SessionStatusRejected
}

// PhotoSession is one booked engagement between a photographer and a client
type PhotoSession struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PhotographerID     uint `gorm:"index" json:"photographer_id"`
	ClientID           uint `gorm:"index" json:"client_id"`
	PhotoSessionTypeID uint `json:"photo_session_type_id"`

	Status               SessionStatus         `gorm:"type:varchar(30);default:'Solicitada';index" json:"status"`
	PaymentStatus        PaymentStatus         `gorm:"type:varchar(20);default:'Pendiente'" json:"payment_status"`
	PhotographerDecision *PhotographerDecision `gorm:"type:varchar(20)" json:"photographer_decision"`
	TotalPrice           float64               `gorm:"type:decimal(10,2)" json:"total_price"`

	Title            string    `gorm:"type:varchar(100)" json:"title"`
	Date             time.Time `gorm:"type:date" json:"date"`
	StartTime        string    `gorm:"type:varchar(5)" json:"start_time"` // HH:MM
	EndTime          string    `gorm:"type:varchar(5)" json:"end_time"`   // HH:MM
	Department       string    `gorm:"type:varchar(100)" json:"department"`
	City             string    `gorm:"type:varchar(100)" json:"city"`
	Address          string    `gorm:"type:varchar(255)" json:"address"`
	PlaceDescription *string   `gorm:"type:varchar(500)" json:"place_description"`

	// Relationships
	Photographer *Photographer                     `gorm:"foreignKey:PhotographerID" json:"photographer,omitempty"`
	Client       *Client                           `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Type         *PhotoSessionType                 `gorm:"foreignKey:PhotoSessionTypeID" json:"type,omitempty"`
	Album        *Album                            `gorm:"foreignKey:PhotoSessionID" json:"album,omitempty"`
	Services     []PhotoSessionPhotographerService `gorm:"foreignKey:PhotoSessionID" json:"services,omitempty"`
}

// PhotoSessionPhotographerService is a purchased line item. Quantity and unit
// price are copied at booking time so later price changes do not alter it.
type PhotoSessionPhotographerService struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PhotoSessionID        uint    `gorm:"index" json:"photo_session_id"`
	PhotographerServiceID uint    `gorm:"index" json:"photographer_service_id"`
	Quantity              int     `json:"quantity"`
	UnitPrice             float64 `gorm:"type:decimal(10,2)" json:"unit_price"`

	// Relationships
	PhotographerService PhotographerService `gorm:"foreignKey:PhotographerServiceID" json:"photographer_service"`
}

// Subtotal is quantity times unit price
func (l PhotoSessionPhotographerService) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}
