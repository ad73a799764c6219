// Package session keeps server side login sessions and OAuth state tokens in a fiber storage.
package session

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/biluochun/biluochun/internal/auth"
	"github.com/biluochun/biluochun/internal/uniuri"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	// StateCookieName binds an OAuth state token to the browser that started the login.
	StateCookieName = "oauth_state"

	// StateExpiry is how long an OAuth state token stays valid.
	StateExpiry = 5 * time.Minute

	sessionPrefix = "session:"
	statePrefix   = "oauth_state:"
)

var (
	// ErrNoSession is returned when the request carries no valid session.
	ErrNoSession = errors.New("no valid session")
	// ErrInvalidState is returned for unknown, expired or already used state tokens
	// and for tokens not matching the state cookie of the request.
	ErrInvalidState = errors.New("invalid or expired state token")
	// ErrStorageNil is returned when the manager is created without storage.
	ErrStorageNil = errors.New("session storage is nil")
)

// Data represents the session data structure. It only references the user, the
// user itself is loaded per request.
type Data struct {
	UserID  uint64    `json:"user_id"`
	LoginAt time.Time `json:"login_at"`
}

// Principal returns the request identity of the session.
func (d *Data) Principal() auth.Principal {
	return auth.Principal{UserID: d.UserID, LoginAt: d.LoginAt}
}

// Config of the session manager.
type Config struct {
	Expiry time.Duration
	Secure bool   // false only in dev mode
	Domain string // empty for host only cookies
}

// Manager reads and writes sessions.
type Manager struct {
	storage fiber.Storage
	cfg     Config
}

// New creates a session manager on the given storage.
func New(storage fiber.Storage, cfg Config) (*Manager, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	return &Manager{storage: storage, cfg: cfg}, nil
}

// Create starts a session for the user and sets the session cookie.
func (m *Manager) Create(c *fiber.Ctx, userID uint64) error {
	sessionID := uniuri.SessionID()

	out, err := json.Marshal(&Data{UserID: userID, LoginAt: time.Now().UTC()})
	if err != nil {
		return err //nolint:wrapcheck
	}

	if err = m.storage.Set(sessionPrefix+sessionID, out, m.cfg.Expiry); err != nil {
		return err //nolint:wrapcheck
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   m.cfg.Domain,
		MaxAge:   int(m.cfg.Expiry.Seconds()),
		Secure:   m.cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// Read returns the session of the request.
func (m *Manager) Read(c *fiber.Ctx) (*Data, error) {
	sessionID := c.Cookies(CookieName)
	if sessionID == "" {
		return nil, ErrNoSession
	}

	raw, err := m.storage.Get(sessionPrefix + sessionID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	data := new(Data)
	if err = json.Unmarshal(raw, data); err != nil || data.UserID == 0 {
		return nil, ErrNoSession
	}

	return data, nil
}

// Destroy removes the session of the request and expires the cookie.
func (m *Manager) Destroy(c *fiber.Ctx) error {
	if sessionID := c.Cookies(CookieName); sessionID != "" {
		if err := m.storage.Delete(sessionPrefix + sessionID); err != nil {
			return err //nolint:wrapcheck
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cfg.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   m.cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// NewState issues a single use OAuth state token and sets it as state cookie.
func (m *Manager) NewState(c *fiber.Ctx) (string, error) {
	state := uniuri.State()

	if err := m.storage.Set(statePrefix+state, []byte{1}, StateExpiry); err != nil {
		return "", err //nolint:wrapcheck
	}

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		Domain:   m.cfg.Domain,
		MaxAge:   int(StateExpiry.Seconds()),
		Secure:   m.cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return state, nil
}

// ConsumeState checks a state token against the state cookie of the request and
// the storage, then invalidates both.
func (m *Manager) ConsumeState(c *fiber.Ctx, state string) error {
	cookie := c.Cookies(StateCookieName)

	if cookie != "" {
		c.Cookie(&fiber.Cookie{
			Name:     StateCookieName,
			Value:    "",
			Path:     "/",
			Domain:   m.cfg.Domain,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Secure:   m.cfg.Secure,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}

	if state == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(state)) != 1 {
		return ErrInvalidState
	}

	raw, err := m.storage.Get(statePrefix + state)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(raw) == 0 {
		return ErrInvalidState
	}

	return m.storage.Delete(statePrefix + state) //nolint:wrapcheck
}
