// Package team provides the data access for teams.
package team

import (
	"errors"

	"gorm.io/gorm"

	"github.com/biluochun/biluochun/internal/db/models"
)

// listColumns leaves the icon blob out of listings.
var listColumns = []string{"id", "name", "mod_name", "description", "repo", "invite", "created_at", "updated_at"}

var (
	// ErrTeamNotFound is returned when a team is not found.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInviteEmpty is returned when a team without invite code should be stored.
	ErrInviteEmpty = errors.New("invite code cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Fields holds the mutable metadata of a team. Nil fields are left unchanged.
type Fields struct {
	Name        *string
	ModName     *string
	Description *string
	Repo        *string
}

// GetByID retrieves a team by its ID, icon included.
func GetByID(db *gorm.DB, id uint64) (*models.Team, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.Team
	if err := db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return &t, nil
}

// GetByInvite retrieves the team owning the invite code.
func GetByInvite(db *gorm.DB, code string) (*models.Team, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if code == "" {
		return nil, ErrInviteEmpty
	}

	var t models.Team
	if err := db.Select(listColumns).Where("invite = ?", code).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return &t, nil
}

// GetAll retrieves all teams ordered by id, without icons.
func GetAll(db *gorm.DB) ([]models.Team, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var teams []models.Team
	if err := db.Select(listColumns).Order("id").Find(&teams).Error; err != nil {
		return nil, err
	}

	return teams, nil
}

// Create inserts a new team. The ID is assigned by the database.
func Create(db *gorm.DB, t *models.Team) error {
	if db == nil {
		return ErrDBNil
	}
	if t.Invite == "" {
		return ErrInviteEmpty
	}

	return db.Create(t).Error
}

// Update applies the non nil fields to the team.
func Update(db *gorm.DB, id uint64, f Fields) error {
	if db == nil {
		return ErrDBNil
	}

	changes := make(map[string]any)

	if f.Name != nil {
		changes["name"] = *f.Name
	}
	if f.ModName != nil {
		changes["mod_name"] = *f.ModName
	}
	if f.Description != nil {
		changes["description"] = *f.Description
	}
	if f.Repo != nil {
		changes["repo"] = *f.Repo
	}

	if len(changes) == 0 {
		return nil
	}

	return db.Model(&models.Team{}).Where("id = ?", id).Updates(changes).Error
}

// SetInvite replaces the invite code of a team.
func SetInvite(db *gorm.DB, id uint64, code string) error {
	if db == nil {
		return ErrDBNil
	}
	if code == "" {
		return ErrInviteEmpty
	}

	return db.Model(&models.Team{}).Where("id = ?", id).Update("invite", code).Error
}

// SetIcon replaces the icon of a team.
func SetIcon(db *gorm.DB, id uint64, icon []byte) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Model(&models.Team{}).Where("id = ?", id).Update("icon", icon).Error
}
