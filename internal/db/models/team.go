package models

import "time"

// Team groups users. It is never deleted, a team without members is abandoned.
type Team struct {
	// ID is generated by the database (auto increment or sequence).
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:255;not null"`
	ModName     string `gorm:"size:255"`
	Description string `gorm:"type:text"`
	Repo        string `gorm:"size:512"`
	// Invite is the shared secret needed to join the team.
	Invite string `gorm:"uniqueIndex;size:64;not null"`
	// Icon holds the team picture as PNG, nil if none was uploaded.
	Icon []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}
