// Package handler holds what all API handlers share: dependencies, request binding
// and the JSON error envelope.
package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/config"
	"github.com/biluochun/biluochun/internal/membership"
	"github.com/biluochun/biluochun/internal/metrics"
	"github.com/biluochun/biluochun/internal/profile"
	"github.com/biluochun/biluochun/internal/web/session"
)

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every json route.
	APIPath = RootPath + "api"

	// ErrNilDepsFatalLogMsg is used if app or deps are nil.
	ErrNilDepsFatalLogMsg = "app or handler dependencies are nil"
)

// Deps are the services the handlers work on.
type Deps struct {
	Cfg      *config.Config
	Sessions *session.Manager
	Auth     *auth.Service
	Teams    *membership.Service
	Profiles *profile.Service
	Metrics  *metrics.Metrics
}

// Valid reports whether all mandatory dependencies are set. Metrics are optional.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.Sessions != nil && d.Auth != nil && d.Teams != nil && d.Profiles != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
