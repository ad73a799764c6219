// Package user provides the data access for users and their team reference.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/biluochun/biluochun/internal/db/models"
)

const (
	idQueryPattern   = "id = ?"
	teamQueryPattern = "team_id = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrExternalIDEmpty is returned when a user without external id should be created.
	ErrExternalIDEmpty = errors.New("external id cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves a user by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// GetByExternalID retrieves a user by the subject of the identity provider.
func GetByExternalID(db *gorm.DB, externalID string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if externalID == "" {
		return nil, ErrExternalIDEmpty
	}

	var u models.User
	if err := db.Where("external_id = ?", externalID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// GetByIDs retrieves the users with the given IDs ordered by id.
// Unknown ids are silently skipped, compare lengths to detect them.
func GetByIDs(db *gorm.DB, ids []uint64) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}

	if err := db.Where("id IN ?", ids).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Create inserts a new user. The ID is assigned by the database.
func Create(db *gorm.DB, u *models.User) error {
	if db == nil {
		return ErrDBNil
	}
	if u.ExternalID == "" {
		return ErrExternalIDEmpty
	}

	return db.Omit("Image", "Team").Create(u).Error
}

// SetName updates the display name of a user.
func SetName(db *gorm.DB, id uint64, name string) error {
	return updateColumn(db, id, "name", name)
}

// SetTeam sets or clears (nil) the team reference of a user.
func SetTeam(db *gorm.DB, id uint64, teamID *uint64) error {
	return updateColumn(db, id, "team_id", teamID)
}

// SetTeamMany sets the team reference of all given users at once.
func SetTeamMany(db *gorm.DB, ids []uint64, teamID uint64) error {
	if db == nil {
		return ErrDBNil
	}
	if len(ids) == 0 {
		return nil
	}

	return db.Model(&models.User{}).Where("id IN ?", ids).Update("team_id", teamID).Error
}

// SetImage points the user to a stored image.
func SetImage(db *gorm.DB, id uint64, imageID uint64) error {
	return updateColumn(db, id, "image_id", imageID)
}

// Members lists the members of a team ordered by id.
func Members(db *gorm.DB, teamID uint64) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User
	if err := db.Where(teamQueryPattern, teamID).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// CountMembers counts the members of a team.
func CountMembers(db *gorm.DB, teamID uint64) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64
	if err := db.Model(&models.User{}).Where(teamQueryPattern, teamID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func updateColumn(db *gorm.DB, id uint64, column string, value any) error {
	if db == nil {
		return ErrDBNil
	}

	// callers load the user first, RowsAffected is unreliable on mysql for unchanged rows
	return db.Model(&models.User{}).Where(idQueryPattern, id).Update(column, value).Error
}
