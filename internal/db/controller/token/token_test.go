package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/biluochun/biluochun/internal/db/dbtest"
	"github.com/biluochun/biluochun/internal/db/models"
)

func createUser(t *testing.T, db *gorm.DB, subject string) uint64 {
	t.Helper()

	u := models.User{ExternalID: subject, Name: subject}
	require.NoError(t, db.Create(&u).Error)

	return u.ID
}

func TestSetUpserts(t *testing.T) {
	db := dbtest.Open(t)

	u1 := createUser(t, db, "sub-1")
	u2 := createUser(t, db, "sub-2")

	_, err := Get(db, u1)
	require.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, Set(db, u1, []byte(`{"access_token":"a"}`)))
	require.NoError(t, Set(db, u1, []byte(`{"access_token":"b"}`)))
	require.NoError(t, Set(db, u2, []byte(`{"access_token":"c"}`)))

	got, err := Get(db, u1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"access_token":"b"}`, string(got.Token))

	var count int64
	require.NoError(t, db.Model(&models.OAuthToken{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestTokenBelongsToUser(t *testing.T) {
	db := dbtest.Open(t)

	// unknown user is rejected by the foreign key
	require.Error(t, Set(db, 4242, []byte(`{"access_token":"x"}`)))

	u := createUser(t, db, "sub-1")
	require.NoError(t, Set(db, u, []byte(`{"access_token":"a"}`)))

	require.NoError(t, db.Delete(&models.User{}, u).Error)

	_, err := Get(db, u)
	require.ErrorIs(t, err, ErrTokenNotFound)
}
