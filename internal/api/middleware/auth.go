package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/imoveis/catalog/internal/core/auth"
)

const (
	ContextUserID  = "user_id"
	ContextSession = "session"
)

type SessionIssuer interface {
	SessionFromToken(token string) (*auth.Session, error)
}

type AuthMiddleware struct {
	issuer SessionIssuer
}

func NewAuthMiddleware(issuer SessionIssuer) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer}
}

// Authenticate requires a bearer token and stores the resulting session in
// the request context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		if !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unsupported authorization type"})
			return
		}

		sess, err := m.issuer.SessionFromToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextUserID, sess.UserID)
		c.Next()
	}
}

// GetSession returns the session set by Authenticate, or nil.
func GetSession(c *gin.Context) *auth.Session {
	val, exists := c.Get(ContextSession)
	if !exists {
		return nil
	}
	if sess, ok := val.(*auth.Session); ok {
		return sess
	}
	return nil
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	if id, ok := val.(uuid.UUID); ok {
		return id, true
	}
	return uuid.Nil, false
}
