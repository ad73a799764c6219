// Package token stores the SSO token set of users.
package token

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biluochun/biluochun/internal/db/models"
)

var (
	// ErrTokenNotFound is returned when no token is stored for a user.
	ErrTokenNotFound = errors.New("oauth token not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves the stored token of a user.
func Get(db *gorm.DB, userID uint64) (*models.OAuthToken, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.OAuthToken
	if err := db.Where("user_id = ?", userID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	return &t, nil
}

// Set creates or replaces the token of a user (upsert on user_id).
func Set(db *gorm.DB, userID uint64, raw []byte) error {
	if db == nil {
		return ErrDBNil
	}

	t := models.OAuthToken{UserID: userID, Token: raw}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&t).Error
}
