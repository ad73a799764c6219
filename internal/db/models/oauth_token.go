package models

import "time"

// OAuthToken stores the SSO token set of a user as opaque JSON.
// It is removed together with its user.
type OAuthToken struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"uniqueIndex;not null"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	// Token is a JSON encoded oauth2.Token.
	Token []byte `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the gorm derived name.
func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
