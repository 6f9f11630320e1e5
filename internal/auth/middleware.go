package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emanuelaromano/book-manager/internal/http/response"
	"github.com/emanuelaromano/book-manager/internal/logging"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyEmail    = "auth_email"
	ContextKeyAuthType = "auth_type" // "cookie" or "bearer"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeCookie AuthType = "cookie"
	AuthTypeBearer AuthType = "bearer"
)

// Middleware verifies session tokens on protected routes.
type Middleware struct {
	service *Service
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// RequireAuth rejects requests without a valid session with 401. The
// session cookie is checked first, then an Authorization: Bearer header.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := m.tryCookieAuth(c); claims != nil {
			m.setUserContext(c, claims, AuthTypeCookie)
			c.Next()
			return
		}

		if claims := m.tryBearerAuth(c); claims != nil {
			m.setUserContext(c, claims, AuthTypeBearer)
			c.Next()
			return
		}

		response.Abort(c, ErrInvalidToken)
	}
}

func (m *Middleware) tryCookieAuth(c *gin.Context) *Claims {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := m.service.Authenticate(token)
	if err != nil {
		return nil
	}
	return claims
}

// tryBearerAuth attempts to authenticate using Bearer token.
func (m *Middleware) tryBearerAuth(c *gin.Context) *Claims {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}

	claims, err := m.service.Authenticate(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	return claims
}

// setUserContext stores user information in the Gin context.
func (m *Middleware) setUserContext(c *gin.Context, claims *Claims, authType AuthType) {
	userID, _ := claims.UserID()
	c.Set(ContextKeyUserID, userID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeyAuthType, authType)
	logging.AddFields(c, logrus.Fields{"user_id": userID, "auth_type": authType})
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if the request is not authenticated.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}
