// Package daemon wires configuration, database, sessions and the web service together.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/config"
	"github.com/biluochun/biluochun/internal/db"
	"github.com/biluochun/biluochun/internal/db/controller"
	"github.com/biluochun/biluochun/internal/db/dsn"
	"github.com/biluochun/biluochun/internal/membership"
	"github.com/biluochun/biluochun/internal/metrics"
	"github.com/biluochun/biluochun/internal/profile"
	"github.com/biluochun/biluochun/internal/web"
	"github.com/biluochun/biluochun/internal/web/handler"
	"github.com/biluochun/biluochun/internal/web/session"
)

const (
	sessionTable      = "sessions"
	sessionGCInterval = 10 * time.Minute
)

// ErrConfigNil is returned when the daemon is created without config.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	storage    fiber.Storage
}

// Start runs the web service until a termination signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	if errClose := d.storage.Close(); errClose != nil {
		log.Warn().Err(errClose).Msg("can't close session storage")
	}

	return err
}

// New connects the database, migrates it and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = db.Migrate(gormDB); err != nil {
		return nil, err //nolint:wrapcheck
	}

	m := metrics.New()

	if sqlDB, errDB := gormDB.DB(); errDB == nil {
		m.RegisterDBStats(sqlDB, cfg.DB.Name)
	}

	store, err := controller.New(gormDB)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	storage, err := newSessionStorage(cfg, gormDB)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(storage, web.SessionConfig(cfg))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	deps := &handler.Deps{
		Cfg:      cfg,
		Sessions: sessions,
		Auth:     auth.NewService(store, identityProvider(ctx, cfg)),
		Teams:    membership.NewService(store, m),
		Profiles: profile.NewService(store, m),
		Metrics:  m,
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(deps),
		storage:    storage,
	}, nil
}

// newSessionStorage picks the gofiber storage driver matching the database engine.
// gofiber's sqlite3 storage needs cgo through mattn/go-sqlite3 while the database
// runs on the pure Go glebarez driver, so sqlite keeps sessions in a gorm managed table.
func newSessionStorage(cfg *config.Config, gormDB *gorm.DB) (fiber.Storage, error) {
	switch cfg.DB.GormEngine {
	case dsn.EngineMySQL, "":
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
			GCInterval:    sessionGCInterval,
		}), nil
	case dsn.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURL(cfg),
			Table:         sessionTable,
			GCInterval:    sessionGCInterval,
		}), nil
	case dsn.EngineSQLite:
		return session.NewGormStorage(gormDB, sessionGCInterval) //nolint:wrapcheck
	default:
		return nil, fmt.Errorf("%w: %s", db.ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// identityProvider returns the OIDC provider or nil if login is disabled or the
// provider can't be reached. The result must stay an untyped nil in that case.
func identityProvider(ctx context.Context, cfg *config.Config) auth.IdentityProvider {
	if !cfg.Auth.OIDC.Enabled {
		log.Info().Msg("OIDC authentication is disabled by configuration")
		return nil
	}

	provider, err := auth.NewOIDCProvider(ctx, &cfg.Auth.OIDC)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize OIDC provider, login is disabled")
		return nil
	}

	log.Info().Str("provider", cfg.Auth.OIDC.ProviderURL).Msg("OIDC authentication provider initialized")

	return provider
}
