package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/colortherapy-api/internal/access"
	"github.com/harentsoaR/colortherapy-api/internal/auth"
	"github.com/harentsoaR/colortherapy-api/internal/models"
	"github.com/harentsoaR/colortherapy-api/internal/session"
)

const sessionKey = "session"

// AuthMiddleware rejects requests without a valid token for a live session.
func AuthMiddleware(tokens *auth.TokenIssuer, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		s, ok := lookup(authHeader, tokens, sessions)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		// Set session in the context for handlers to use
		c.Set(sessionKey, s)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(tokens *auth.TokenIssuer, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			if s, ok := lookup(authHeader, tokens, sessions); ok {
				c.Set(sessionKey, s)
			}
		}
		c.Next()
	}
}

func lookup(authHeader string, tokens *auth.TokenIssuer, sessions *session.Manager) (*session.Session, bool) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := tokens.Validate(tokenString)
	if err != nil {
		return nil, false
	}
	s, ok := sessions.Get(claims.SessionID)
	if !ok || s.User.ID.Hex() != claims.UserID {
		return nil, false
	}
	return s, true
}

// CurrentSession returns the session attached by AuthMiddleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}

// RequirePage allows the request only if the session may perform action on page.
func RequirePage(page string, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if err := access.Check(s.Access, page, action); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
			return
		}
		c.Next()
	}
}

// RequireUserManager layers the SuperAdmin role check on top of the
// user-management page permission.
func RequireUserManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		if !access.CanManageUsers(s.Access, s.User.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
			return
		}
		c.Next()
	}
}
