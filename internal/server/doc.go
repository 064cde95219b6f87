// Package server provides the HTTP surface: routing, middleware, and JSON handlers.
//
// # Routing
//
// Routes are registered on a [chi.Router]. Public routes (register, login,
// health) sit alongside three guarded groups: session-authenticated routes,
// admin-only routes, and the shared-secret cron endpoint.
//
// # Sessions
//
// A session is a signed token minted at login, accepted either as a Bearer
// Authorization header or as the session cookie. Middleware verifies the
// token and stores the [auth.Session] in the request context; the admin gate
// is a username comparison against the configured reserved identity on top of
// the same session check.
//
// # Error Mapping
//
// Handlers return sentinel errors from the shared package; [writeError] maps
// them to status codes and JSON bodies in one place. Backend causes are
// logged, responses stay generic.
package server
