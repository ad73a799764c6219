package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biluochun/biluochun/internal/db/dbtest"
	"github.com/biluochun/biluochun/internal/db/models"
)

func ptr(s string) *string { return &s }

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	db := dbtest.Open(t)

	a := models.Team{Name: "Alpha", Invite: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	b := models.Team{Name: "Beta", Invite: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}

	require.NoError(t, Create(db, &a))
	require.NoError(t, Create(db, &b))

	assert.NotZero(t, a.ID)
	assert.Greater(t, b.ID, a.ID)

	teams, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "Beta", teams[1].Name)
}

func TestInviteIsUnique(t *testing.T) {
	db := dbtest.Open(t)

	require.NoError(t, Create(db, &models.Team{Name: "Alpha", Invite: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}))
	assert.Error(t, Create(db, &models.Team{Name: "Beta", Invite: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}))
	assert.ErrorIs(t, Create(db, &models.Team{Name: "Gamma"}), ErrInviteEmpty)
}

func TestGetByInvite(t *testing.T) {
	db := dbtest.Open(t)

	tm := models.Team{Name: "Alpha", Invite: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	require.NoError(t, Create(db, &tm))

	got, err := GetByInvite(db, tm.Invite)
	require.NoError(t, err)
	assert.Equal(t, tm.ID, got.ID)

	_, err = GetByInvite(db, "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	require.NoError(t, SetInvite(db, tm.ID, "cccccccccccccccccccccccccccccccc"))

	_, err = GetByInvite(db, tm.Invite)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = GetByID(nil, tm.ID)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestUpdatePartial(t *testing.T) {
	db := dbtest.Open(t)

	tm := models.Team{Name: "Alpha", ModName: "alpha-mod", Repo: "https://example.com/alpha", Invite: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	require.NoError(t, Create(db, &tm))

	require.NoError(t, Update(db, tm.ID, Fields{Description: ptr("A team"), Name: ptr("Alpha 2")}))
	require.NoError(t, Update(db, tm.ID, Fields{}))

	got, err := GetByID(db, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha 2", got.Name)
	assert.Equal(t, "A team", got.Description)
	assert.Equal(t, "alpha-mod", got.ModName)
	assert.Equal(t, "https://example.com/alpha", got.Repo)
}

func TestIcon(t *testing.T) {
	db := dbtest.Open(t)

	tm := models.Team{Name: "Alpha", Invite: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	require.NoError(t, Create(db, &tm))

	got, err := GetByID(db, tm.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Icon)

	require.NoError(t, SetIcon(db, tm.ID, []byte{0x89, 'P', 'N', 'G'}))

	got, err = GetByID(db, tm.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got.Icon)

	teams, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Empty(t, teams[0].Icon, "listings leave the icon out")
}
