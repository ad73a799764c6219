package auth_test

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biluochun/biluochun/internal/apperror"
	"github.com/biluochun/biluochun/internal/web/middleware/auth"
	"github.com/biluochun/biluochun/internal/web/session"
)

type fakeSessions struct {
	data *session.Data
	err  error
}

func (f fakeSessions) Read(*fiber.Ctx) (*session.Data, error) {
	return f.data, f.err
}

func newApp(mw fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := apperror.As(err); ok && errors.Is(e, apperror.ErrUnauthorized) {
				return c.SendStatus(fiber.StatusUnauthorized)
			}

			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})

	app.Get("/", mw, func(c *fiber.Ctx) error {
		if p := auth.PrincipalOf(c); p != nil {
			return c.JSON(fiber.Map{"id": p.UserID})
		}

		return c.SendStatus(fiber.StatusNoContent)
	})

	return app
}

func TestMiddleware(t *testing.T) {
	valid := fakeSessions{data: &session.Data{UserID: 3, LoginAt: time.Now()}}
	missing := fakeSessions{err: session.ErrNoSession}
	broken := fakeSessions{err: errors.New("storage down")} //nolint:goerr113

	tests := []struct {
		name       string
		mw         fiber.Handler
		wantStatus int
	}{
		{name: "require with session", mw: auth.Require(valid), wantStatus: fiber.StatusOK},
		{name: "require without session", mw: auth.Require(missing), wantStatus: fiber.StatusUnauthorized},
		{name: "require storage error", mw: auth.Require(broken), wantStatus: fiber.StatusInternalServerError},
		{name: "optional with session", mw: auth.Optional(valid), wantStatus: fiber.StatusOK},
		{name: "optional without session", mw: auth.Optional(missing), wantStatus: fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newApp(tt.mw).Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
			require.NoError(t, err)

			_ = resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
