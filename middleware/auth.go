package middleware

import (
	"strings"

	"foodgram-backend/helper"
	"foodgram-backend/logger"
	"foodgram-backend/models"
	"foodgram-backend/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// Authenticator validates access tokens and records the caller on the gin context.
type Authenticator struct {
	secret  []byte
	revoker services.TokenRevoker
	helper  *helper.HTTPHelper
}

// NewAuthenticator accepts a nil revoker, in which case tokens stay valid until expiry.
func NewAuthenticator(secret []byte, revoker services.TokenRevoker, h *helper.HTTPHelper) *Authenticator {
	return &Authenticator{secret: secret, revoker: revoker, helper: h}
}

// Required rejects requests without a valid token.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			a.helper.SendUnauthorizedError(c, "authentication credentials were not provided")
			c.Abort()
			return
		}

		if !a.authenticate(c, tokenString) {
			a.helper.SendUnauthorizedError(c, "invalid token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Optional records the caller when a valid token is present and lets
// anonymous requests through. A bad token is still rejected.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		if !a.authenticate(c, tokenString) {
			a.helper.SendUnauthorizedError(c, "invalid token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, tokenString string) bool {
	claims, err := services.ParseToken(tokenString, a.secret)
	if err != nil {
		logger.Debug("rejected token", "error", err)
		return false
	}

	if a.revoker != nil && claims.ID != "" {
		revoked, err := a.revoker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Revocation checks fail open.
			logger.Warn("failed to check token revocation", "error", err)
		} else if revoked {
			return false
		}
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
	return true
}

// RequireRole only lets callers with one of roles through. It must run after Required.
func (a *Authenticator) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			a.helper.SendUnauthorizedError(c, "authentication credentials were not provided")
			c.Abort()
			return
		}

		roleStr, _ := userRole.(string)
		for _, role := range roles {
			if roleStr == string(role) {
				c.Next()
				return
			}
		}

		a.helper.SendForbiddenError(c, "insufficient permissions")
		c.Abort()
	}
}

// UserID returns the authenticated caller, or 0 for anonymous requests.
func UserID(c *gin.Context) uint {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(uint)
	return userID
}

func Actor(c *gin.Context) models.Actor {
	role, _ := c.Get(ContextRole)
	roleStr, _ := role.(string)
	return models.Actor{UserID: UserID(c), Role: models.UserRole(roleStr)}
}

func Claims(c *gin.Context) *services.Claims {
	claims, _ := c.Get(ContextClaims)
	typed, _ := claims.(*services.Claims)
	return typed
}

// bearerToken accepts both "Bearer <jwt>" and "Token <jwt>".
func bearerToken(header string) (string, bool) {
	for _, prefix := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(header, prefix) {
			token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
			return token, token != ""
		}
	}
	return "", false
}
