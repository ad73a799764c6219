package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/biluochun/biluochun/internal/config"
)

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

// claims of the ID token used to build an Identity.
type claims struct {
	Sub               string `json:"sub"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
}

// NewOIDCProvider creates a new OIDC provider. It fetches the discovery document of the provider.
func NewOIDCProvider(ctx context.Context, cfg *config.OIDCAuth) (*OIDCProvider, error) {
	if !cfg.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email", oidc.ScopeOfflineAccess}
	}

	return &OIDCProvider{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// AuthURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) AuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// Exchange trades the authorization code for a token set and verifies its ID token.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var c claims
	if err = idToken.Claims(&c); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return c.identity(oauth2Token)
}

// Refresh obtains a new token set using the refresh token of the given one.
func (p *OIDCProvider) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token == nil || token.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	// without access token the source always asks the provider
	tokenSource := p.oauth2.TokenSource(ctx, &oauth2.Token{
		RefreshToken: token.RefreshToken,
	})

	fresh, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	return fresh, nil
}

// identity builds the Identity, the display name falls back to preferred_username and email.
func (c *claims) identity(token *oauth2.Token) (*Identity, error) {
	if c.Sub == "" {
		return nil, ErrNoSubject
	}

	name := c.Name

	for _, fallback := range []string{c.PreferredUsername, c.Email} {
		if name != "" {
			break
		}

		name = fallback
	}

	return &Identity{Subject: c.Sub, Name: name, Token: token}, nil
}
