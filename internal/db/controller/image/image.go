// Package image provides the data access for stored pictures.
package image

import (
	"errors"

	"gorm.io/gorm"

	"github.com/biluochun/biluochun/internal/db/models"
)

var (
	// ErrImageNotFound is returned when an image is not found.
	ErrImageNotFound = errors.New("image not found")
	// ErrImageEmpty is returned when an image without data should be stored.
	ErrImageEmpty = errors.New("image data cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByID retrieves an image by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Image, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var img models.Image
	if err := db.First(&img, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	return &img, nil
}

// Create stores a new image.
func Create(db *gorm.DB, img *models.Image) error {
	if db == nil {
		return ErrDBNil
	}
	if len(img.Data) == 0 {
		return ErrImageEmpty
	}

	return db.Create(img).Error
}

// Delete removes an image. Deleting a missing image is not an error.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Delete(&models.Image{}, id).Error
}
