// Package membership implements teams and the rules of joining and leaving them.
// A user is in at most one team. Joining needs the invite code of the team and only
// members may change a team.
package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/db/controller"
	"github.com/biluochun/biluochun/internal/db/controller/team"
	"github.com/biluochun/biluochun/internal/db/models"
	"github.com/biluochun/biluochun/internal/imaging"
	"github.com/biluochun/biluochun/internal/metrics"
	"github.com/biluochun/biluochun/internal/uniuri"
)

const msgNoTeam = "You have not joined a team yet!"

// Service is the team membership service.
type Service struct {
	store   controller.Store
	metrics *metrics.Metrics
}

// NewService creates a membership service. m may be nil.
func NewService(store controller.Store, m *metrics.Metrics) *Service {
	return &Service{store: store, metrics: m}
}

// Create makes a new team with the caller as its only member.
func (s *Service) Create(ctx context.Context, p auth.Principal, in TeamInfo) (*Detailed, error) {
	if err := apperror.Validate(in); err != nil {
		return nil, err
	}

	var out *Detailed

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if u.InTeam() {
			return apperror.Conflict("You have already been in a team!")
		}

		t := &models.Team{
			Name:    u.Name + "'s team",
			ModName: u.Name + "'s mod",
			Invite:  uniuri.Invite(),
		}
		in.apply(t)

		if err = tx.CreateTeam(t); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}

		if err = tx.SetUserTeam(u.ID, &t.ID); err != nil {
			return fmt.Errorf("failed to join new team: %w", err)
		}

		out = detailedOf(t, 1, true)

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTeamEvent(metrics.EventCreate)
	log.Info().Uint64("user_id", p.UserID).Uint64("team_id", out.ID).Msg("team created")

	return out, nil
}

// Join puts the caller into the team owning the invite code.
func (s *Service) Join(ctx context.Context, p auth.Principal, in JoinRequest) error {
	var teamID uint64

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if u.InTeam() {
			return apperror.Conflict("You have joined a team!")
		}

		if err = apperror.Validate(in); err != nil {
			return err
		}

		code := uniuri.NormalizeInvite(in.InviteCode)
		if !uniuri.ValidInvite(code) {
			return apperror.FieldInvalid("invite_code", "Invalid invite code.")
		}

		t, err := tx.TeamByInvite(code)
		if errors.Is(err, team.ErrTeamNotFound) {
			return apperror.NotFound("No team matches this invite code.")
		}
		if err != nil {
			return fmt.Errorf("failed to find team: %w", err)
		}

		count, err := tx.CountMembers(t.ID)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}

		if count <= 0 {
			return apperror.Forbidden("Cannot join abandoned team")
		}

		teamID = t.ID

		return tx.SetUserTeam(u.ID, &t.ID)
	})
	if err != nil {
		return err
	}

	s.metrics.IncTeamEvent(metrics.EventJoin)
	log.Info().Uint64("user_id", p.UserID).Uint64("team_id", teamID).Msg("team joined")

	return nil
}

// Leave removes the caller from its team.
func (s *Service) Leave(ctx context.Context, p auth.Principal) error {
	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if !u.InTeam() {
			return apperror.NotFound(msgNoTeam)
		}

		return tx.SetUserTeam(u.ID, nil)
	})
	if err != nil {
		return err
	}

	s.metrics.IncTeamEvent(metrics.EventLeave)

	return nil
}

// Update changes the metadata of a team the caller is a member of.
func (s *Service) Update(ctx context.Context, p auth.Principal, teamID uint64, in TeamInfo) error {
	if err := apperror.Validate(in); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		if _, err := memberTeam(tx, p, teamID); err != nil {
			return err
		}

		return tx.UpdateTeam(teamID, team.Fields{
			Name:        in.Name,
			ModName:     in.ModName,
			Description: in.Description,
			Repo:        in.Repo,
		})
	})
	if err != nil {
		return err
	}

	s.metrics.IncTeamEvent(metrics.EventUpdate)

	return nil
}

// ResetInvite replaces the invite code of the caller's team and returns the new one.
func (s *Service) ResetInvite(ctx context.Context, p auth.Principal) (string, error) {
	code := uniuri.Invite()

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if !u.InTeam() {
			return apperror.NotFound("You are not in a team yet!")
		}

		return tx.SetTeamInvite(*u.TeamID, code)
	})
	if err != nil {
		return "", err
	}

	s.metrics.IncTeamEvent(metrics.EventRotate)

	return code, nil
}

// Get returns the detailed view of a team. p may be nil for anonymous callers.
// The invite code is only revealed to members.
func (s *Service) Get(ctx context.Context, p *auth.Principal, teamID uint64) (*Detailed, error) {
	var out *Detailed

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		t, err := findTeam(tx, teamID)
		if err != nil {
			return err
		}

		member := false

		if p != nil {
			u, errUser := tx.UserByID(p.UserID)
			member = errUser == nil && u.MemberOf(t.ID)
		}

		out, err = detailed(tx, t, member)

		return err
	})

	return out, err
}

// Mine returns the caller's team including the invite code.
func (s *Service) Mine(ctx context.Context, p auth.Principal) (*Detailed, error) {
	var out *Detailed

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		u, err := auth.LoadUser(tx, p)
		if err != nil {
			return err
		}

		if !u.InTeam() {
			return apperror.NotFound(msgNoTeam)
		}

		t, err := findTeam(tx, *u.TeamID)
		if err != nil {
			return err
		}

		out, err = detailed(tx, t, true)

		return err
	})

	return out, err
}

// List returns all teams ordered by id.
func (s *Service) List(ctx context.Context) ([]Brief, error) {
	out := []Brief{}

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		teams, err := tx.Teams()
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}

		for i := range teams {
			out = append(out, BriefOf(&teams[i]))
		}

		return nil
	})

	return out, err
}

// Members lists the members of a team.
func (s *Service) Members(ctx context.Context, teamID uint64) ([]Member, error) {
	out := []Member{}

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		if _, err := findTeam(tx, teamID); err != nil {
			return err
		}

		users, err := tx.Members(teamID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		for _, u := range users {
			out = append(out, Member{ID: u.ID, Name: u.Name})
		}

		return nil
	})

	return out, err
}

// AssignMembers puts the listed users into a team the caller is a member of.
// The batch is applied completely or not at all.
func (s *Service) AssignMembers(ctx context.Context, p auth.Principal, teamID uint64, in AssignRequest) error {
	if err := apperror.Validate(in); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		if _, err := memberTeam(tx, p, teamID); err != nil {
			return err
		}

		users, err := tx.UsersByIDs(in.Users)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}

		found := make(map[uint64]bool, len(users))

		for _, u := range users {
			found[u.ID] = true

			if u.InTeam() && !u.MemberOf(teamID) {
				return apperror.Conflict("User %d is already in another team!", u.ID)
			}
		}

		for _, id := range in.Users {
			if !found[id] {
				return apperror.NotFound("No such user %d", id)
			}
		}

		return tx.SetUsersTeam(in.Users, teamID)
	})
	if err != nil {
		return err
	}

	s.metrics.IncTeamEvent(metrics.EventAssign)

	return nil
}

// Icon returns the PNG icon of a team.
func (s *Service) Icon(ctx context.Context, teamID uint64) ([]byte, error) {
	var icon []byte

	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		t, err := findTeam(tx, teamID)
		if err != nil {
			return err
		}

		if len(t.Icon) == 0 {
			return apperror.NotFound("Team '%s' has no icon", t.Name)
		}

		icon = t.Icon

		return nil
	})

	return icon, err
}

// SetIcon sanitizes raw and stores it as icon of a team the caller is a member of.
func (s *Service) SetIcon(ctx context.Context, p auth.Principal, teamID uint64, raw []byte) error {
	err := s.store.Transaction(ctx, func(tx controller.Tx) error {
		if _, err := memberTeam(tx, p, teamID); err != nil {
			return err
		}

		icon, err := imaging.Sanitize(raw)
		if err != nil {
			return err
		}

		return tx.SetTeamIcon(teamID, icon)
	})

	s.metrics.IncImageUpload(metrics.KindTeamIcon, metrics.ResultOf(err))

	return err
}

func findTeam(tx controller.Tx, teamID uint64) (*models.Team, error) {
	t, err := tx.TeamByID(teamID)
	if errors.Is(err, team.ErrTeamNotFound) {
		return nil, apperror.NotFound("No such team")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	return t, nil
}

// memberTeam loads the team and checks that the caller is one of its members.
func memberTeam(tx controller.Tx, p auth.Principal, teamID uint64) (*models.Team, error) {
	u, err := auth.LoadUser(tx, p)
	if err != nil {
		return nil, err
	}

	t, err := findTeam(tx, teamID)
	if err != nil {
		return nil, err
	}

	if !u.MemberOf(t.ID) {
		return nil, apperror.Forbidden("You are not in team '%s'!", t.Name)
	}

	return t, nil
}

func detailed(tx controller.Tx, t *models.Team, withInvite bool) (*Detailed, error) {
	count, err := tx.CountMembers(t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	return detailedOf(t, count, withInvite), nil
}
