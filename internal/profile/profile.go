// Package profile lets users view and change their own profile and picture.
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/db/controller"
	"github.com/biluochun/biluochun/internal/db/controller/image"
	"github.com/biluochun/biluochun/internal/db/controller/team"
	"github.com/biluochun/biluochun/internal/db/models"
	"github.com/biluochun/biluochun/internal/imaging"
	"github.com/biluochun/biluochun/internal/membership"
	"github.com/biluochun/biluochun/internal/metrics"
)

// Summary is the profile of the logged in user.
type Summary struct {
	Name string            `json:"name"`
	Team *membership.Brief `json:"team"`
}

// UserInfo is the mutable part of a profile. An empty name keeps the current one.
type UserInfo struct {
	Name string `json:"name" form:"name" validate:"omitempty,max=255"`
}

// Service is the profile service.
type Service struct {
	store   controller.Store
	metrics *metrics.Metrics
}

// NewService creates a profile service. m may be nil.
func NewService(store controller.Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// Summary returns name and team of the caller.
func (s *Service) Summary(ctx context.Context, p auth.Principal) (*Summary, error) {
	var out *Summary

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		out = &Summary{Name: u.Name}

		if !u.InTeam() {
			return nil
		}

		t, err := tx.TeamByID(*u.TeamID)
		if errors.Is(err, team.ErrTeamNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load team: %w", err)
		}

		brief := membership.BriefOf(t)
		out.Team = &brief

		return nil
	})

	return out, err
}

// Rename changes the display name of the caller.
func (s *Service) Rename(ctx context.Context, p auth.Principal, in UserInfo) error {
	if err := apperror.Validate(in); err != nil {
		return err
	}

	return s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if in.Name == "" {
			return nil
		}

		return tx.SetUserName(u.ID, in.Name)
	})
}

// AvatarID returns the id of the caller's picture.
func (s *Service) AvatarID(ctx context.Context, p auth.Principal) (uint64, error) {
	var id uint64

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if u.ImageID == nil {
			return apperror.NotFound("You have not uploaded a profile picture yet!")
		}

		id = *u.ImageID

		return nil
	})

	return id, err
}

// SetAvatar sanitizes raw and stores it as the caller's picture, replacing the previous one.
func (s *Service) SetAvatar(ctx context.Context, p auth.Principal, raw []byte) error {
	clean, err := imaging.Sanitize(raw)
	if err != nil {
		s.metrics.IncImageUpload(metrics.KindAvatar, metrics.ResultOf(err))
		return err
	}

	err = s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, errTx := auth.LoadUser(tx, p)
		if errTx != nil {
			return errTx
		}

		img := &models.Image{Data: clean, MimeType: imaging.MimeType}
		if errTx = tx.CreateImage(img); errTx != nil {
			return fmt.Errorf("failed to store image: %w", errTx)
		}

		if errTx = tx.SetUserImage(u.ID, img.ID); errTx != nil {
			return fmt.Errorf("failed to link image: %w", errTx)
		}

		if u.ImageID == nil {
			return nil
		}

		return tx.DeleteImage(*u.ImageID)
	})

	s.metrics.IncImageUpload(metrics.KindAvatar, metrics.ResultOf(err))

	return err
}

// Image returns a stored picture by id. Pictures are public.
func (s *Service) Image(ctx context.Context, id uint64) (*models.Image, error) {
	var img *models.Image

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		var err error

		img, err = tx.ImageByID(id)
		if errors.Is(err, image.ErrImageNotFound) {
			return apperror.NotFound("No such image")
		}

		return err
	})

	return img, err
}
