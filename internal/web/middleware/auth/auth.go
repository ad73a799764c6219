package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/web/session"
)

// LocalsKey is the fiber.Locals key of the request principal.
const LocalsKey = "principal"

// SessionReader reads the session of a request.
type SessionReader interface {
	Read(c *fiber.Ctx) (*session.Data, error)
}

// Require only lets requests with a valid session pass.
func Require(sessions SessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := attach(c, sessions); err != nil {
			return err
		}

		if PrincipalOf(c) == nil {
			return apperror.Unauthorized("Login required.")
		}

		return c.Next()
	}
}

// Optional attaches the principal if there is a valid session.
func Optional(sessions SessionReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := attach(c, sessions); err != nil {
			return err
		}

		return c.Next()
	}
}

// PrincipalOf returns the principal of the request or nil for anonymous requests.
func PrincipalOf(c *fiber.Ctx) *auth.Principal {
	p, ok := c.Locals(LocalsKey).(*auth.Principal)
	if !ok {
		return nil
	}

	return p
}

func attach(c *fiber.Ctx, sessions SessionReader) error {
	if PrincipalOf(c) != nil {
		return nil
	}

	data, err := sessions.Read(c)
	if errors.Is(err, session.ErrNoSession) {
		return nil
	}

	if err != nil {
		log.Error().Err(err).Msg("can't read session")
		return err //nolint:wrapcheck
	}

	p := data.Principal()
	c.Locals(LocalsKey, &p)

	return nil
}
