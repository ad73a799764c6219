// Package web builds the fiber application of the json api and runs it.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/config"
	fiberlogger "github.com/biluochun/biluochun/internal/logger/adapter/fiber"
	"github.com/biluochun/biluochun/internal/web/handler"
	oidchandler "github.com/biluochun/biluochun/internal/web/handler/auth/oidc"
	"github.com/biluochun/biluochun/internal/web/handler/image"
	"github.com/biluochun/biluochun/internal/web/handler/profile"
	"github.com/biluochun/biluochun/internal/web/handler/team"
	"github.com/biluochun/biluochun/internal/web/session"
)

const (
	// CheckAlivePath answers {} while the service accepts traffic.
	CheckAlivePath = handler.RootPath

	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"

	requestIDLocal = "requestid"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	deps         *handler.Deps
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.deps.Cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.deps.Cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service and registers all routes.
func New(deps *handler.Deps) *Service {
	if !deps.Valid() {
		panic(handler.ErrNilDepsFatalLogMsg)
	}

	cfg := deps.Cfg

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.MaxUploadSize,
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(requestid.New(requestid.Config{
		Generator:  func() string { return xid.New().String() },
		ContextKey: requestIDLocal,
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:         cfg.Log,
		CheckAliveURI:  CheckAlivePath,
		RequestIDLocal: requestIDLocal,
	}))

	if cfg.Webserver.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.Webserver.FrontendURL,
			AllowCredentials: true,
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		}))
	}

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{
			Key: cfg.Webserver.CookieEncryptionKey,
		}))
	}

	service := &Service{
		App:          app,
		deps:         deps,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.checkAlive)

	if deps.Metrics != nil {
		app.Get(MetricsPath, adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	for _, h := range []handler.Service{
		new(oidchandler.Service),
		new(profile.Service),
		new(team.Service),
		new(image.Service),
	} {
		if err := h.Init(app, deps); err != nil {
			log.Fatal().Err(err).Msg("can't init handler")
		}
	}

	return service
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(handler.ErrorResponse{Error: "shutting down"})
	}

	return handler.Empty(c)
}

// SessionConfig derives the session cookie settings from the config.
// Cookies are only sent over https unless dev mode is on.
func SessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		Expiry: cfg.Webserver.Session.ExpiryTime,
		Secure: !cfg.DevMode,
		Domain: cfg.Webserver.Domain,
	}
}
