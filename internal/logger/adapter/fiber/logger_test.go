package fiber_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/biluochun/biluochun/internal/logger/adapter/fiber"
)

type accessLine struct {
	Status    int     `json:"status"`
	URI       string  `json:"URI"`
	Method    string  `json:"method"`
	Host      string  `json:"host"`
	RequestID string  `json:"request_id"`
	Error     string  `json:"error"`
	Perf      float64 `json:"X-Performance"`
}

func newApp(out *bytes.Buffer, cfg adapter.Config) *fiber.App {
	cfg.Output = out

	app := fiber.New()
	app.Use(requestid.New(requestid.Config{Generator: func() string { return "rid-1" }}))
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{})
	})
	app.Get("/fail", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		return errors.New("boom") //nolint:goerr113
	})

	return app
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantURI    string
		wantErr    string
	}{
		{name: "root", target: "/", wantStatus: fiber.StatusOK, wantURI: "/"},
		{name: "query string kept", target: "/?test=123", wantStatus: fiber.StatusOK, wantURI: "/?test=123"},
		{name: "unknown route", target: "/nope", wantStatus: fiber.StatusNotFound, wantURI: "/nope", wantErr: "Cannot GET /nope"},
		{name: "fiber error", target: "/fail", wantStatus: fiber.StatusTeapot, wantURI: "/fail", wantErr: "short and stout"},
		{name: "plain error", target: "/boom", wantStatus: fiber.StatusInternalServerError, wantURI: "/boom", wantErr: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			app := newApp(&out, adapter.Config{})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			var line accessLine
			require.NoError(t, json.Unmarshal(out.Bytes(), &line), "output: %s", out.String())

			assert.Equal(t, tt.wantStatus, line.Status)
			assert.Equal(t, tt.wantURI, line.URI)
			assert.Equal(t, fiber.MethodGet, line.Method)
			assert.Equal(t, "example.com", line.Host)
			assert.Equal(t, "rid-1", line.RequestID)
			assert.Equal(t, tt.wantErr, line.Error)
		})
	}
}

func TestNewSkipsCheckAlive(t *testing.T) {
	var out bytes.Buffer

	cfg := adapter.Config{CheckAliveURI: "/"}
	cfg.Config.DisableCheckAlive = true

	app := newApp(&out, cfg)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, out.String())
}

func TestNewNext(t *testing.T) {
	var out bytes.Buffer

	app := newApp(&out, adapter.Config{Next: func(*fiber.Ctx) bool { return true }})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	assert.Empty(t, out.String())
	assert.Empty(t, resp.Header.Get("X-Performance"))
}
