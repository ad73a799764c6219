// Package auth provides the session middleware of the API.
//
// Require rejects requests without a valid session with 401, Optional lets them
// through anonymously. Both place the auth.Principal of a valid session into
// fiber.Locals, handlers read it back with PrincipalOf.
//
// Usage:
//
//	api := app.Group("/api/profile", authmiddleware.Require(sessions))
package auth
