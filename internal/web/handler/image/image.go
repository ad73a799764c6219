// Package image serves stored pictures.
package image

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/web/handler"
)

// Path is the route group of stored pictures.
const Path = handler.APIPath + "/image"

// Service is the image handler service.
type Service struct {
	deps *handler.Deps
}

var _ handler.Service = (*Service)(nil)

// Init registers the image route.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		log.Fatal().Msg(handler.ErrNilDepsFatalLogMsg)
		return nil
	}

	s.deps = deps

	app.Get(Path+"/:id", s.Get)

	return nil
}

// Get sends the picture with its stored content type.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "No such image")
	if err != nil {
		return err //nolint:wrapcheck
	}

	img, err := s.deps.Profiles.Image(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c.Set(fiber.HeaderContentType, img.MimeType)

	return c.Send(img.Data)
}
