package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrNoSubject is returned when an identity carries no subject claim.
	ErrNoSubject = errors.New("identity has no subject")

	// ErrNoRefreshToken is returned when the stored token set can not be refreshed.
	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
	ErrOIDCDisabled = errors.New("oidc authentication is disabled")
)
