// Package team serves the public team routes: listing, creation, metadata, members and icon.
package team

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/imaging"
	"github.com/biluochun/biluochun/internal/membership"
	"github.com/biluochun/biluochun/internal/web/handler"
	authmiddleware "github.com/biluochun/biluochun/internal/web/middleware/auth"
)

const (
	// Path is the route group of teams.
	Path = handler.APIPath + "/team"

	noSuchTeam = "No such team"
)

// Service is the team handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the team routes.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps

	required := authmiddleware.Require(deps.Sessions)

	g := app.Group(Path)

	g.Get("/", s.List)
	g.Post("/", required, s.Create)
	g.Get("/:id", authmiddleware.Optional(deps.Sessions), s.Get)
	g.Post("/:id", required, s.Update)
	g.Get("/:id/members", s.Members)
	g.Post("/:id/members", required, s.Assign)
	g.Patch("/:id/members", required, s.Assign)

	for _, alias := range []string{"/:id/avatar", "/:id/icon", "/:id/profile_pic"} {
		g.Get(alias, s.Icon)
		g.Post(alias, required, s.SetIcon)
	}

	return nil
}

// List returns all teams in brief.
func (s *Service) List(c *fiber.Ctx) error {
	out, err := s.deps.Teams.List(c.UserContext())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(out)
}

// Create makes a new team led by the caller.
func (s *Service) Create(c *fiber.Ctx) error {
	var in membership.TeamInfo
	if err := handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	out, err := s.deps.Teams.Create(c.UserContext(), *authmiddleware.PrincipalOf(c), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(out)
}

// Get returns one team. Members also see the invite code.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, noSuchTeam)
	if err != nil {
		return err //nolint:wrapcheck
	}

	out, err := s.deps.Teams.Get(c.UserContext(), authmiddleware.PrincipalOf(c), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(out)
}

// Update changes the metadata of a team of the caller.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, noSuchTeam)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in membership.TeamInfo
	if err = handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.deps.Teams.Update(c.UserContext(), *authmiddleware.PrincipalOf(c), id, in); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}

// Members lists the members of a team.
func (s *Service) Members(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, noSuchTeam)
	if err != nil {
		return err //nolint:wrapcheck
	}

	out, err := s.deps.Teams.Members(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(out)
}

// Assign puts users into a team. Clients of the first api version expect
// the placeholder answer, it is kept although the assignment is applied.
func (s *Service) Assign(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, noSuchTeam)
	if err != nil {
		return err //nolint:wrapcheck
	}

	var in membership.AssignRequest
	if err = handler.Bind(c, &in); err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.deps.Teams.AssignMembers(c.UserContext(), *authmiddleware.PrincipalOf(c), id, in); err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(fiber.Map{"info": "Not Yet Implemented"})
}

// Icon sends the team icon.
func (s *Service) Icon(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, noSuchTeam)
	if err != nil {
		return err //nolint:wrapcheck
	}

	icon, err := s.deps.Teams.Icon(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c.Set(fiber.HeaderContentType, imaging.MimeType)

	return c.Send(icon)
}

// SetIcon replaces the team icon.
func (s *Service) SetIcon(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, noSuchTeam)
	if err != nil {
		return err //nolint:wrapcheck
	}

	raw, err := handler.UploadedImage(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = s.deps.Teams.SetIcon(c.UserContext(), *authmiddleware.PrincipalOf(c), id, raw); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}
