// Package auth provides local authentication for the web UI: user
// registration, bcrypt password verification, SQLite-backed sessions,
// CSRF protection and the login/logout handlers.
//
// The rest of the application only consumes the actor identity: the
// middleware resolves the session into a user id stored on the gin
// context, and GetUserID(c) returns it (0 for anonymous requests).
// Handlers that require an authenticated actor use RequireAuth, which
// redirects browsers to /login?next=<original path>.
package auth
