package image

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biluochun/biluochun/internal/db/dbtest"
	"github.com/biluochun/biluochun/internal/db/models"
)

func TestCreateGetDelete(t *testing.T) {
	db := dbtest.Open(t)

	img := models.Image{Data: []byte("first"), MimeType: "image/png"}
	require.NoError(t, Create(db, &img))
	require.NotZero(t, img.ID)

	got, err := GetByID(db, img.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got.Data)
	assert.Equal(t, "image/png", got.MimeType)

	require.NoError(t, Delete(db, img.ID))
	require.NoError(t, Delete(db, img.ID))

	_, err = GetByID(db, img.ID)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestErrors(t *testing.T) {
	db := dbtest.Open(t)

	_, err := GetByID(db, 7)
	assert.ErrorIs(t, err, ErrImageNotFound)

	assert.ErrorIs(t, Create(db, &models.Image{MimeType: "image/png"}), ErrImageEmpty)
	assert.ErrorIs(t, Delete(nil, 1), ErrDBNil)
	assert.ErrorIs(t, Create(nil, &models.Image{Data: []byte("x")}), ErrDBNil)
}
