package models

import "time"

// User is a local account bound to one external SSO subject.
// A user belongs to zero or one team.
type User struct {
	// ID is the local identifier, generated by the database.
	ID uint64 `gorm:"primaryKey;autoIncrement"`
	// ExternalID is the stable subject claim of the identity provider.
	ExternalID string `gorm:"uniqueIndex;size:255;not null"`
	// Name is the display name. Taken from the provider on first login, editable afterwards.
	Name string `gorm:"size:255;not null"`
	// ImageID references the profile picture, nil if none was uploaded.
	ImageID *uint64
	Image   *Image `gorm:"foreignKey:ImageID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`
	// TeamID references the team of the user, nil if not in a team.
	TeamID *uint64 `gorm:"index"`
	Team   *Team   `gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InTeam reports whether the user is currently a member of any team.
func (u *User) InTeam() bool {
	return u.TeamID != nil
}

// MemberOf reports whether the user is a member of the given team.
func (u *User) MemberOf(teamID uint64) bool {
	return u.TeamID != nil && *u.TeamID == teamID
}
