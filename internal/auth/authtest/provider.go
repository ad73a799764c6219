// Package authtest provides an in-process identity provider for tests.
package authtest

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/biluochun/biluochun/internal/auth"
)

// ErrUnknownCode is returned by Exchange for codes nobody registered.
var ErrUnknownCode = errors.New("unknown authorization code")

// ErrRefreshRejected is returned by Refresh when RejectRefresh is set.
var ErrRefreshRejected = errors.New("refresh rejected")

// Provider is a fake auth.IdentityProvider. Codes are registered with AddCode.
type Provider struct {
	mu            sync.Mutex
	codes         map[string]auth.Identity
	refreshes     int
	RejectRefresh bool
}

// New creates an empty fake provider.
func New() *Provider {
	return &Provider{codes: make(map[string]auth.Identity)}
}

// AddCode makes Exchange(code) return an identity with a token set.
func (p *Provider) AddCode(code, subject, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.codes[code] = auth.Identity{
		Subject: subject,
		Name:    name,
		Token: &oauth2.Token{
			AccessToken:  "access-" + subject,
			RefreshToken: "refresh-" + subject,
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(time.Hour),
		},
	}
}

// Refreshes counts successful Refresh calls.
func (p *Provider) Refreshes() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.refreshes
}

// AuthURL implements auth.IdentityProvider.
func (p *Provider) AuthURL(state string) string {
	return "https://sso.example.com/authorize?state=" + url.QueryEscape(state)
}

// Exchange implements auth.IdentityProvider. Codes are single use.
func (p *Provider) Exchange(_ context.Context, code string) (*auth.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.codes[code]
	if !ok {
		return nil, ErrUnknownCode
	}

	delete(p.codes, code)

	return &id, nil
}

// Refresh implements auth.IdentityProvider.
func (p *Provider) Refresh(_ context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.RejectRefresh {
		return nil, ErrRefreshRejected
	}

	if token == nil || token.RefreshToken == "" {
		return nil, auth.ErrNoRefreshToken
	}

	p.refreshes++

	return &oauth2.Token{
		AccessToken: "refreshed-" + token.RefreshToken,
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}, nil
}
