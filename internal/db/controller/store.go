// Package controller bundles the per model data access packages behind one transactional store.
package controller

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/biluochun/biluochun/internal/db/controller/image"
	"github.com/biluochun/biluochun/internal/db/controller/team"
	"github.com/biluochun/biluochun/internal/db/controller/token"
	"github.com/biluochun/biluochun/internal/db/controller/user"
	"github.com/biluochun/biluochun/internal/db/models"
)

// ErrDBNil is returned when the store is created without database.
var ErrDBNil = errors.New("database connection is nil")

// Tx is the data access available inside one transaction.
type Tx interface {
	UserByID(id uint64) (*models.User, error)
	UserByExternalID(externalID string) (*models.User, error)
	UsersByIDs(ids []uint64) ([]models.User, error)
	CreateUser(u *models.User) error
	SetUserName(id uint64, name string) error
	SetUserTeam(id uint64, teamID *uint64) error
	SetUsersTeam(ids []uint64, teamID uint64) error
	SetUserImage(id uint64, imageID uint64) error
	Members(teamID uint64) ([]models.User, error)
	CountMembers(teamID uint64) (int64, error)

	TeamByID(id uint64) (*models.Team, error)
	TeamByInvite(code string) (*models.Team, error)
	Teams() ([]models.Team, error)
	CreateTeam(t *models.Team) error
	UpdateTeam(id uint64, f team.Fields) error
	SetTeamInvite(id uint64, code string) error
	SetTeamIcon(id uint64, icon []byte) error

	ImageByID(id uint64) (*models.Image, error)
	CreateImage(img *models.Image) error
	DeleteImage(id uint64) error

	Token(userID uint64) (*models.OAuthToken, error)
	SetToken(userID uint64, raw []byte) error
}

// Store runs fn inside a transaction. The transaction commits when fn returns nil
// and rolls back on any error.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// GormStore implements Store with gorm.
type GormStore struct {
	db *gorm.DB
}

// New creates a gorm backed store.
func New(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &GormStore{db: db}, nil
}

// Transaction implements Store.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) UserByID(id uint64) (*models.User, error) { return user.GetByID(t.db, id) }

func (t *gormTx) UserByExternalID(externalID string) (*models.User, error) {
	return user.GetByExternalID(t.db, externalID)
}

func (t *gormTx) UsersByIDs(ids []uint64) ([]models.User, error) { return user.GetByIDs(t.db, ids) }

func (t *gormTx) CreateUser(u *models.User) error { return user.Create(t.db, u) }

func (t *gormTx) SetUserName(id uint64, name string) error { return user.SetName(t.db, id, name) }

func (t *gormTx) SetUserTeam(id uint64, teamID *uint64) error { return user.SetTeam(t.db, id, teamID) }

func (t *gormTx) SetUsersTeam(ids []uint64, teamID uint64) error {
	return user.SetTeamMany(t.db, ids, teamID)
}

func (t *gormTx) SetUserImage(id uint64, imageID uint64) error {
	return user.SetImage(t.db, id, imageID)
}

func (t *gormTx) Members(teamID uint64) ([]models.User, error) { return user.Members(t.db, teamID) }

func (t *gormTx) CountMembers(teamID uint64) (int64, error) {
	return user.CountMembers(t.db, teamID)
}

func (t *gormTx) TeamByID(id uint64) (*models.Team, error) { return team.GetByID(t.db, id) }

func (t *gormTx) TeamByInvite(code string) (*models.Team, error) {
	return team.GetByInvite(t.db, code)
}

func (t *gormTx) Teams() ([]models.Team, error) { return team.GetAll(t.db) }

func (t *gormTx) CreateTeam(tm *models.Team) error { return team.Create(t.db, tm) }

func (t *gormTx) UpdateTeam(id uint64, f team.Fields) error { return team.Update(t.db, id, f) }

func (t *gormTx) SetTeamInvite(id uint64, code string) error {
	return team.SetInvite(t.db, id, code)
}

func (t *gormTx) SetTeamIcon(id uint64, icon []byte) error { return team.SetIcon(t.db, id, icon) }

func (t *gormTx) ImageByID(id uint64) (*models.Image, error) { return image.GetByID(t.db, id) }

func (t *gormTx) CreateImage(img *models.Image) error { return image.Create(t.db, img) }

func (t *gormTx) DeleteImage(id uint64) error { return image.Delete(t.db, id) }

func (t *gormTx) Token(userID uint64) (*models.OAuthToken, error) { return token.Get(t.db, userID) }

func (t *gormTx) SetToken(userID uint64, raw []byte) error { return token.Set(t.db, userID, raw) }
