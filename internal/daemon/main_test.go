package daemon

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biluochun/biluochun/internal/config"
	"github.com/biluochun/biluochun/internal/db"
	"github.com/biluochun/biluochun/internal/db/dbtest"
	"github.com/biluochun/biluochun/internal/web/session"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{Title: "biluochun-test"}
	cfg.DB.GormEngine = "sqlite"
	cfg.DB.Name = filepath.Join(t.TempDir(), "biluochun.db")
	cfg.Webserver.Port = 8080
	cfg.Webserver.Session.ExpiryTime = time.Hour

	return cfg
}

func TestNewNilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	require.ErrorIs(t, err, ErrConfigNil)
}

func TestNewSQLite(t *testing.T) {
	d, err := New(context.Background(), sqliteConfig(t))
	require.NoError(t, err)

	t.Cleanup(func() { _ = d.storage.Close() })

	assert.IsType(t, &session.GormStorage{}, d.storage)

	resp, err := d.webService.App.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// login is disabled without provider
	resp, err = d.webService.App.Test(httptest.NewRequest(fiber.MethodGet, "/api/auth/login", nil), -1)
	require.NoError(t, err)

	_ = resp.Body.Close()

	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestNewSessionStorageUnknownEngine(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DB.GormEngine = "oracle"

	_, err := newSessionStorage(cfg, dbtest.Open(t))
	require.ErrorIs(t, err, db.ErrUnknownEngine)
}

func TestIdentityProviderDisabled(t *testing.T) {
	cfg := sqliteConfig(t)

	assert.Nil(t, identityProvider(context.Background(), cfg))

	// unreachable discovery url disables login instead of failing the start
	cfg.Auth.OIDC.Enabled = true
	cfg.Auth.OIDC.ProviderURL = "http://127.0.0.1:1"
	cfg.Auth.OIDC.ClientID = "client"

	assert.Nil(t, identityProvider(context.Background(), cfg))
}
