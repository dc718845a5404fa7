package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// AnonymousUserID is the actor id of unauthenticated requests.
const AnonymousUserID = uint(0)

// Middleware resolves the session into an actor identity on the gin
// context. It never rejects a request by itself; catalog browsing and
// search stay public. RequireAuth guards the mutating routes.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// Handler returns a Gin middleware that resolves the current actor
// from the session, if any.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessionManager.GetUserID(c.Request)
		if userID == 0 {
			c.Set(ContextKeyUserID, AnonymousUserID)
			c.Next()
			return
		}

		user, err := m.service.GetUserByID(userID)
		if err != nil {
			// Stale session pointing at a deleted account
			c.Set(ContextKeyUserID, AnonymousUserID)
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyUsername, user.Username)
		c.Next()
	}
}

// RequireAuth returns a middleware that redirects anonymous requests
// to the login page, preserving the originally requested destination
// for the post-login return.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == AnonymousUserID {
			c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns AnonymousUserID (0) when nobody is logged in.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return AnonymousUserID
}

// GetUsername retrieves the authenticated user's username from the
// context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// IsAuthenticated returns true if the request carries a logged-in user.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != AnonymousUserID
}
