// Package auth binds single sign-on identities to local users.
//
// # Identity providers
//
// IdentityProvider abstracts the external login. OIDCProvider implements it with
// go-oidc and x/oauth2 against any OpenID Connect provider (Microsoft identity
// platform, Keycloak, Google, ...):
//   - AuthURL builds the redirect to the provider for a state token
//   - Exchange trades the callback code for a verified Identity
//   - Refresh obtains a new token set from a stored refresh token
//
// # Users
//
// Service.SignIn looks up the local User by the subject claim and creates it on the
// first login. The display name is only taken from the provider at creation, users
// may rename themselves afterwards. The token set is stored opaquely as JSON next
// to the user so the session can be refreshed later.
//
// # Principal
//
// A Principal is the authenticated identity of one request. The web layer puts it
// into the request locals and hands it to every service call. There is no global
// "current user".
//
// Example usage:
//
//	provider, err := auth.NewOIDCProvider(ctx, &cfg.Auth.OIDC)
//	authService := auth.NewService(store, provider)
//
//	identity, err := provider.Exchange(ctx, code)
//	user, err := authService.SignIn(ctx, identity)
package auth
