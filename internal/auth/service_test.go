package auth_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/auth/authtest"
	"github.com/biluochun/biluochun/internal/db/controller"
	"github.com/biluochun/biluochun/internal/db/controller/token"
	"github.com/biluochun/biluochun/internal/db/dbtest"
)

func newService(t *testing.T) (*auth.Service, *authtest.Provider, *controller.GormStore) {
	t.Helper()

	store, err := controller.New(dbtest.Open(t))
	require.NoError(t, err)

	provider := authtest.New()

	return auth.NewService(store, provider), provider, store
}

func signIn(t *testing.T, s *auth.Service, p *authtest.Provider, code, sub, name string) auth.Principal {
	t.Helper()

	p.AddCode(code, sub, name)

	id, err := p.Exchange(context.Background(), code)
	require.NoError(t, err)

	u, err := s.SignIn(context.Background(), id)
	require.NoError(t, err)

	return auth.Principal{UserID: u.ID}
}

func TestSignInCreatesOnce(t *testing.T) {
	s, p, store := newService(t)
	ctx := context.Background()

	first := signIn(t, s, p, "c1", "sub-1", "Alice")

	// rename locally, the provider name must not overwrite it on the next login
	require.NoError(t, store.Transaction(ctx, func(tx controller.Tx) error {
		return tx.SetUserName(first.UserID, "Alice in Wonderland")
	}))

	second := signIn(t, s, p, "c2", "sub-1", "Alice")
	assert.Equal(t, first.UserID, second.UserID)

	u, err := s.CurrentUser(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "Alice in Wonderland", u.Name)
	assert.Equal(t, "sub-1", u.ExternalID)

	other := signIn(t, s, p, "c3", "sub-2", "")
	assert.NotEqual(t, first.UserID, other.UserID)

	u, err = s.CurrentUser(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, "sub-2", u.Name, "subject is the fallback display name")
}

func TestSignInStoresToken(t *testing.T) {
	s, p, store := newService(t)
	ctx := context.Background()

	pr := signIn(t, s, p, "c1", "sub-1", "Alice")

	require.NoError(t, store.Transaction(ctx, func(tx controller.Tx) error {
		stored, err := tx.Token(pr.UserID)
		require.NoError(t, err)

		var tok oauth2.Token
		require.NoError(t, json.Unmarshal(stored.Token, &tok))
		assert.Equal(t, "refresh-sub-1", tok.RefreshToken)
		assert.Equal(t, "access-sub-1", tok.AccessToken)

		return nil
	}))
}

func TestSignInWithoutSubject(t *testing.T) {
	s, _, _ := newService(t)

	_, err := s.SignIn(context.Background(), &auth.Identity{Name: "nobody"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = s.SignIn(context.Background(), nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestCurrentUserUnknown(t *testing.T) {
	s, _, _ := newService(t)

	_, err := s.CurrentUser(context.Background(), auth.Principal{UserID: 99})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefresh(t *testing.T) {
	s, p, store := newService(t)
	ctx := context.Background()

	pr := signIn(t, s, p, "c1", "sub-1", "Alice")

	require.NoError(t, s.Refresh(ctx, pr))
	assert.Equal(t, 1, p.Refreshes())

	require.NoError(t, store.Transaction(ctx, func(tx controller.Tx) error {
		stored, err := tx.Token(pr.UserID)
		require.NoError(t, err)

		var tok oauth2.Token
		require.NoError(t, json.Unmarshal(stored.Token, &tok))
		assert.Equal(t, "refreshed-refresh-sub-1", tok.AccessToken)
		assert.Equal(t, "refresh-sub-1", tok.RefreshToken, "refresh token is kept when not rotated")

		return nil
	}))

	p.RejectRefresh = true
	assert.ErrorIs(t, s.Refresh(ctx, pr), apperror.ErrUnauthorized)
}

func TestRefreshWithoutToken(t *testing.T) {
	s, _, _ := newService(t)
	ctx := context.Background()

	u, err := s.SignIn(ctx, &auth.Identity{Subject: "sub-x", Name: "X"})
	require.NoError(t, err)

	err = s.Refresh(ctx, auth.Principal{UserID: u.ID})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.NotErrorIs(t, err, token.ErrTokenNotFound)

	err = s.Refresh(ctx, auth.Principal{UserID: 404})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestRefreshDisabled(t *testing.T) {
	store, err := controller.New(dbtest.Open(t))
	require.NoError(t, err)

	s := auth.NewService(store, nil)
	assert.Nil(t, s.Provider())
	assert.ErrorIs(t, s.Refresh(context.Background(), auth.Principal{UserID: 1}), auth.ErrOIDCDisabled)
}
