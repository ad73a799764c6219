package session

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// entry is one row of the gorm backed storage.
type entry struct {
	Key       string `gorm:"column:storage_key;primaryKey;size:128"`
	Value     []byte `gorm:"not null"`
	ExpiresAt int64  `gorm:"index;not null"` // unix seconds, 0 never expires
}

func (entry) TableName() string {
	return "fiber_storage"
}

// GormStorage implements fiber.Storage on top of gorm. It backs sessions when the
// database engine has no dedicated gofiber storage driver (sqlite).
type GormStorage struct {
	db   *gorm.DB
	done chan struct{}
	once sync.Once
}

var _ fiber.Storage = (*GormStorage)(nil)

// NewGormStorage migrates the storage table and starts the expiry sweeper.
// A gcInterval of zero disables the sweeper, expired keys are still never returned.
func NewGormStorage(db *gorm.DB, gcInterval time.Duration) (*GormStorage, error) {
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, err //nolint:wrapcheck
	}

	s := &GormStorage{db: db, done: make(chan struct{})}

	if gcInterval > 0 {
		go s.gc(gcInterval)
	}

	return s, nil
}

// Get implements fiber.Storage. Missing and expired keys return nil without error.
func (s *GormStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var e entry

	err := s.db.Where("storage_key = ? AND (expires_at = 0 OR expires_at > ?)", key, time.Now().Unix()).
		Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return e.Value, nil
}

// Set implements fiber.Storage.
func (s *GormStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	var expiresAt int64
	if exp > 0 {
		expiresAt = time.Now().Add(exp).Unix()
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
	}).Create(&entry{Key: key, Value: val, ExpiresAt: expiresAt}).Error
}

// Delete implements fiber.Storage.
func (s *GormStorage) Delete(key string) error {
	if key == "" {
		return nil
	}

	return s.db.Where("storage_key = ?", key).Delete(&entry{}).Error
}

// Reset implements fiber.Storage.
func (s *GormStorage) Reset() error {
	return s.db.Where("1 = 1").Delete(&entry{}).Error
}

// Close implements fiber.Storage. It stops the sweeper, the database stays open.
func (s *GormStorage) Close() error {
	s.once.Do(func() { close(s.done) })

	return nil
}

func (s *GormStorage) gc(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			err := s.db.Where("expires_at <> 0 AND expires_at <= ?", now.Unix()).Delete(&entry{}).Error
			if err != nil {
				log.Warn().Err(err).Msg("session storage gc failed")
			}
		}
	}
}
