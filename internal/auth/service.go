package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/db/controller"
	"github.com/biluochun/biluochun/internal/db/controller/token"
	"github.com/biluochun/biluochun/internal/db/controller/user"
	"github.com/biluochun/biluochun/internal/db/models"
)

// Service binds identities to local users.
type Service struct {
	store    controller.Store
	provider IdentityProvider
}

// NewService creates a new auth service. provider may be nil when single sign-on is disabled,
// Refresh then fails with ErrOIDCDisabled.
func NewService(store controller.Store, provider IdentityProvider) *Service {
	return &Service{store: store, provider: provider}
}

// Provider returns the configured identity provider, nil if none.
func (s *Service) Provider() IdentityProvider {
	return s.provider
}

// SignIn finds or creates the user of the identity and stores its token set.
func (s *Service) SignIn(ctx context.Context, id *Identity) (*models.User, error) {
	if id == nil || id.Subject == "" {
		return nil, apperror.Unauthorized(ErrNoSubject.Error())
	}

	var (
		rawToken []byte
		err      error
	)

	if id.Token != nil {
		if rawToken, err = json.Marshal(id.Token); err != nil {
			return nil, fmt.Errorf("failed to encode token: %w", err)
		}
	}

	var signedIn *models.User

	err = s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, errTx := tx.UserByExternalID(id.Subject)

		switch {
		case errors.Is(errTx, user.ErrUserNotFound):
			name := id.Name
			if name == "" {
				name = id.Subject
			}

			u = &models.User{ExternalID: id.Subject, Name: name}

			if errTx = tx.CreateUser(u); errTx != nil {
				return fmt.Errorf("failed to create user: %w", errTx)
			}

			log.Info().Uint64("user_id", u.ID).Msg("user created on first login")
		case errTx != nil:
			return fmt.Errorf("failed to query user: %w", errTx)
		}

		if rawToken != nil {
			if errTx = tx.SetToken(u.ID, rawToken); errTx != nil {
				return fmt.Errorf("failed to store token: %w", errTx)
			}
		}

		signedIn = u

		return nil
	})
	if err != nil {
		return nil, err
	}

	return signedIn, nil
}

// CurrentUser loads the user of the principal.
func (s *Service) CurrentUser(ctx context.Context, p Principal) (*models.User, error) {
	var current *models.User

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := LoadUser(tx, p)
		current = u

		return err
	})

	return current, err
}

// Refresh exchanges the stored refresh token of the principal for a new token set.
// The provider is called outside of any transaction.
func (s *Service) Refresh(ctx context.Context, p Principal) error {
	if s.provider == nil {
		return ErrOIDCDisabled
	}

	var stored oauth2.Token

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		if _, err := LoadUser(tx, p); err != nil {
			return err
		}

		t, err := tx.Token(p.UserID)
		if errors.Is(err, token.ErrTokenNotFound) {
			return apperror.Unauthorized(ErrNoRefreshToken.Error())
		}
		if err != nil {
			return err
		}

		return json.Unmarshal(t.Token, &stored)
	})
	if err != nil {
		return err
	}

	fresh, err := s.provider.Refresh(ctx, &stored)
	if err != nil {
		log.Warn().Err(err).Uint64("user_id", p.UserID).Msg("token refresh rejected")
		return apperror.Unauthorized("single sign-on session expired, please log in again")
	}

	// providers may omit the refresh token when it did not rotate
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = stored.RefreshToken
	}

	raw, err := json.Marshal(fresh)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return s.store.Transaction(ctx, func(tx controller.Tx) error {
		return tx.SetToken(p.UserID, raw)
	})
}

// LoadUser returns the user of the principal inside a running transaction.
// A principal whose user vanished is Unauthorized.
func LoadUser(tx controller.Tx, p Principal) (*models.User, error) {
	u, err := tx.UserByID(p.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.Unauthorized("login required")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return u, nil
}
