package oidc

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/metrics"
	"github.com/biluochun/biluochun/internal/web/handler"
	authmiddleware "github.com/biluochun/biluochun/internal/web/middleware/auth"
	"github.com/biluochun/biluochun/internal/web/session"
)

const (
	// Path is the route group of the login flow.
	Path = handler.APIPath + "/auth"

	// LoginPath is the path to initiate OIDC login.
	LoginPath = Path + "/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = Path + "/callback"

	// RefreshPath is the path to refresh the stored provider token.
	RefreshPath = Path + "/refresh"
)

var errUnavailable = fiber.NewError(fiber.StatusServiceUnavailable, "Single sign-on is not available")

// Service is the OIDC handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the routes of the login flow.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps

	if deps.Auth.Provider() == nil {
		log.Warn().Msg("no identity provider configured, login is disabled")
	}

	app.Get(LoginPath, s.Login)
	app.Get(CallbackPath, s.Callback)
	app.Post(RefreshPath, authmiddleware.Require(deps.Sessions), s.Refresh)

	return nil
}

// Login redirects to the identity provider.
func (s *Service) Login(c *fiber.Ctx) error {
	provider := s.deps.Auth.Provider()
	if provider == nil {
		return errUnavailable
	}

	state, err := s.deps.Sessions.NewState(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Redirect(provider.AuthURL(state))
}

// Callback finishes the login flow.
func (s *Service) Callback(c *fiber.Ctx) error {
	provider := s.deps.Auth.Provider()
	if provider == nil {
		return errUnavailable
	}

	if err := s.deps.Sessions.ConsumeState(c, c.Query("state")); err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			s.deps.Metrics.IncLogin(metrics.ResultInvalid)
			return apperror.FieldInvalid("state", "Invalid or expired state token.")
		}

		return err //nolint:wrapcheck
	}

	code := c.Query("code")
	if code == "" {
		s.deps.Metrics.IncLogin(metrics.ResultInvalid)
		return apperror.FieldInvalid("code", "This field is required.")
	}

	identity, err := provider.Exchange(c.UserContext(), code)
	if err != nil {
		log.Warn().Err(err).Msg("OIDC authentication failed")
		s.deps.Metrics.IncLogin(metrics.ResultDenied)

		return apperror.Unauthorized("Authentication failed.")
	}

	user, err := s.deps.Auth.SignIn(c.UserContext(), identity)
	if err != nil {
		s.deps.Metrics.IncLogin(metrics.ResultFailure)
		return err //nolint:wrapcheck
	}

	if err = s.deps.Sessions.Create(c, user.ID); err != nil {
		s.deps.Metrics.IncLogin(metrics.ResultFailure)
		return err //nolint:wrapcheck
	}

	s.deps.Metrics.IncLogin(metrics.ResultSuccess)
	log.Info().Uint64("user_id", user.ID).Msg("user logged in via OIDC")

	return c.Redirect(s.redirectTarget())
}

// Refresh renews the provider token of the caller.
func (s *Service) Refresh(c *fiber.Ctx) error {
	p := authmiddleware.PrincipalOf(c)

	err := s.deps.Auth.Refresh(c.UserContext(), *p)
	if errors.Is(err, auth.ErrOIDCDisabled) {
		return errUnavailable
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Empty(c)
}

func (s *Service) redirectTarget() string {
	if s.deps.Cfg.Webserver.FrontendURL != "" {
		return s.deps.Cfg.Webserver.FrontendURL
	}

	return handler.RootPath
}
