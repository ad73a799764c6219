// Package oidc provides the handlers of the OpenID Connect login flow.
//
// The flow:
//   - Login issues a single use state token, stores it in the oauth_state
//     cookie of the browser and redirects to the provider
//   - Callback checks the state against storage and cookie, exchanges the
//     code, signs the user in and starts a local session before redirecting
//     to the frontend
//   - Refresh renews the stored provider token of the logged in user
//
// Routes:
//
//	GET  /api/auth/login    - start the login flow
//	GET  /api/auth/callback - handle the provider callback
//	POST /api/auth/refresh  - refresh the stored provider token
//
// Logging out only ends the local session, see the profile handler.
package oidc
