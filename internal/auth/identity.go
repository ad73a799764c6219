package auth

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Identity is the result of a successful external login.
type Identity struct {
	// Subject is the stable id of the user at the provider.
	Subject string
	// Name is the display name suggested by the provider.
	Name string
	// Token is the token set to store for later refreshes. May be nil.
	Token *oauth2.Token
}

// IdentityProvider is an external single sign-on provider.
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
	Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error)
}

// Principal is the authenticated identity of a single request.
type Principal struct {
	UserID  uint64
	LoginAt time.Time
}
