package models

import "time"

// Image is a stored profile picture.
type Image struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Data     []byte `gorm:"not null"`
	MimeType string `gorm:"size:64;not null"`

	CreatedAt time.Time
}
