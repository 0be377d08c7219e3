package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/metrics"
	"github.com/nahcon/mealtrack/internal/services"
)

// Context keys populated by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUserUUID = "userUUID"
	ContextEmail    = "email"
	ContextRole     = "role"
)

// TokenCookie is the session cookie name.
const TokenCookie = "auth_token"

// ExtractToken pulls the session token from the cookie or the
// Authorization header. Empty when neither is present.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware validates the session token and populates the request
// context with the authenticated identity.
func AuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserUUID, claims.UUID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the session role is a member of the
// allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		metrics.IncGuardDenial()
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
	}
}

// CurrentActor resolves the audit actor from the request context. Empty
// when the request is unauthenticated.
func CurrentActor(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uint); ok {
			actor.ID = id
		}
	}
	if v, ok := c.Get(ContextEmail); ok {
		if email, ok := v.(string); ok {
			actor.Email = email
		}
	}
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(string); ok {
			actor.Role = role
		}
	}
	return actor
}
