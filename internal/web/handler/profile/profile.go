// Package profile serves the routes of the logged in user: profile, own team and picture.
package profile

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/membership"
	profilesvc "github.com/biluochun/biluochun/internal/profile"
	"github.com/biluochun/biluochun/internal/web/handler"
	"github.com/biluochun/biluochun/internal/web/handler/image"
	authmiddleware "github.com/biluochun/biluochun/internal/web/middleware/auth"
)

const (
	// Path is the route group of the profile.
	Path = handler.APIPath + "/profile"
)

// Service is the profile handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the profile routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps

	g := app.Group(Path, handler.NoCache, authmiddleware.Require(deps.Sessions))

	g.Get("/", s.Get)
	g.Post("/", s.Update)
	g.Post("/logout", s.Logout)

	g.Get("/team", s.Team)
	g.Post("/team", s.Join)
	g.Put("/team", s.Join)
	g.Delete("/team", s.Leave)
	g.Post("/team/invite", s.ResetInvite)

	for _, alias := range []string{"/avatar", "/profile_pic"} {
		g.Get(alias, s.Avatar)
		g.Post(alias, s.SetAvatar)
	}

	return nil
}

// Get returns name and team of the caller.
func (s *Service) Get(c *fiber.Ctx) error {
	out, err := s.deps.Profiles.Summary(c.UserContext(), *authmiddleware.PrincipalOf(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(out)
}

// Update changes the display name.
func (s *Service) Update(c *fiber.Ctx) error {
	var in profilesvc.UserInfo
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.Profiles.Rename(c.UserContext(), *authmiddleware.PrincipalOf(c), in); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}

// Logout ends the local session. The single sign-on session stays untouched.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.deps.Sessions.Destroy(c); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}

// Team returns the caller's team including the invite code.
func (s *Service) Team(c *fiber.Ctx) error {
	out, err := s.deps.Teams.Mine(c.UserContext(), *authmiddleware.PrincipalOf(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(out)
}

// Join puts the caller into the team of the posted invite code.
func (s *Service) Join(c *fiber.Ctx) error {
	var in membership.JoinRequest
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	if err := s.deps.Teams.Join(c.UserContext(), *authmiddleware.PrincipalOf(c), in); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}

// Leave removes the caller from its team.
func (s *Service) Leave(c *fiber.Ctx) error {
	if err := s.deps.Teams.Leave(c.UserContext(), *authmiddleware.PrincipalOf(c)); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}

// ResetInvite replaces the invite code of the caller's team.
func (s *Service) ResetInvite(c *fiber.Ctx) error {
	code, err := s.deps.Teams.ResetInvite(c.UserContext(), *authmiddleware.PrincipalOf(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(fiber.Map{"invite": code})
}

// Avatar redirects to the stored picture of the caller.
func (s *Service) Avatar(c *fiber.Ctx) error {
	id, err := s.deps.Profiles.AvatarID(c.UserContext(), *authmiddleware.PrincipalOf(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect(image.Path + "/" + strconv.FormatUint(id, 10))
}

// SetAvatar replaces the picture of the caller.
func (s *Service) SetAvatar(c *fiber.Ctx) error {
	raw, err := handler.UploadedImage(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.deps.Profiles.SetAvatar(c.UserContext(), *authmiddleware.PrincipalOf(c), raw); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}
