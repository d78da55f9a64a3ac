package models

import (
	"time"

	"gorm.io/gorm"
)

// Album is the client-facing photo delivery surface of a session. Clients
// enter it with the album email and a 6-digit code.
type Album struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	PhotoSessionID uint   `gorm:"index" json:"photo_session_id"`
	Email          string `gorm:"type:varchar(255);index:idx_albums_email_code,priority:1" json:"email"`
	Code           string `gorm:"type:varchar(6);index:idx_albums_email_code,priority:2" json:"code"`

	// Relationships
	PhotoSession *PhotoSession `gorm:"foreignKey:PhotoSessionID" json:"photo_session,omitempty"`
	Photos       []AlbumPhoto  `gorm:"foreignKey:AlbumID" json:"photos,omitempty"`
}

// AlbumPhoto is one uploaded photo inside an album
type AlbumPhoto struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AlbumID      uint    `gorm:"index" json:"album_id"`
	URL          string  `gorm:"type:varchar(255)" json:"url"`
	ThumbnailURL string  `gorm:"type:varchar(255)" json:"thumbnail_url"`
	IsSelected   bool    `gorm:"default:false" json:"is_selected"`
	EditionType  *string `gorm:"type:varchar(100)" json:"edition_type"` // purchased service name this photo fulfils
}
