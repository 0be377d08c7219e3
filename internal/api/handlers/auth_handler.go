package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/metrics"
	"github.com/nahcon/mealtrack/internal/routeguard"
	"github.com/nahcon/mealtrack/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// isProduction checks if we're running in production mode
func isProduction() bool {
	env := os.Getenv("MEALTRACK_ENV")
	return env == "production" || env == "prod"
}

// setSecureCookie sets an auth cookie with security best practices
// - HttpOnly: prevents JavaScript access (XSS protection)
// - Secure: only sent over HTTPS (in production)
// - SameSite=Strict: prevents CSRF attacks
func setSecureCookie(c *gin.Context, name, value string, maxAge int) {
	secure := isProduction()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, "/", "", secure, true)
}

func clearSecureCookie(c *gin.Context, name string) {
	setSecureCookie(c, name, "", -1)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		case errors.Is(err, services.ErrUserInactive):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account inactive"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	setSecureCookie(c, middleware.TokenCookie, token, 3600*24)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":      user.ID,
			"uuid":    user.UUID,
			"email":   user.Email,
			"name":    user.Name,
			"role":    user.Role,
			"state":   user.State,
			"kitchen": user.Kitchen,
		},
		"redirect": routeguard.DefaultPath,
	})
}

// Logout records the outgoing identity when a session token is present
// and clears the cookie. Calling without a session is a no-op, not an
// error, so repeated logouts stay idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	if tokenString := middleware.ExtractToken(c); tokenString != "" {
		if claims, err := h.authService.ValidateToken(tokenString); err == nil {
			actor := services.Actor{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
			h.authService.Logout(actor, c.ClientIP())
		}
	}

	clearSecureCookie(c, middleware.TokenCookie)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	u, err := h.authService.GetUserByID(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      u.ID,
		"uuid":    u.UUID,
		"email":   u.Email,
		"name":    u.Name,
		"role":    u.Role,
		"state":   u.State,
		"kitchen": u.Kitchen,
		"status":  u.Status,
	})
}

// Verify is the forward-auth guard endpoint. It evaluates the route guard
// for the requested path and answers with the navigation decision.
//
// Expected headers:
//   - X-Forwarded-Uri: the path being navigated to
//
// Responses:
//   - 200: render the view (X-Forwarded-User / X-Forwarded-Groups set),
//     or follow X-Auth-Redirect when present (the root path redirect)
//   - 401: not authenticated, X-Auth-Redirect points at the login view
//   - 403: authenticated but not authorized, X-Auth-Redirect points at
//     the fallback view
func (h *AuthHandler) Verify(c *gin.Context) {
	authenticated := false
	var email, role string

	if tokenString := middleware.ExtractToken(c); tokenString != "" {
		if claims, err := h.authService.ValidateToken(tokenString); err == nil {
			if user, err := h.authService.GetUserByID(claims.UserID); err == nil && user.IsActive() {
				authenticated = true
				email = user.Email
				role = user.Role
			}
		}
	}

	path := c.GetHeader("X-Forwarded-Uri")
	if path == "" {
		path = "/"
	}

	decision := routeguard.Decide(path, role, authenticated)
	switch decision.Verdict {
	case routeguard.RedirectLogin:
		metrics.IncGuardDenial()
		c.Header("X-Auth-Redirect", decision.Target)
		c.AbortWithStatus(http.StatusUnauthorized)
	case routeguard.RedirectFallback:
		metrics.IncGuardDenial()
		c.Header("X-Auth-Redirect", decision.Target)
		c.AbortWithStatus(http.StatusForbidden)
	case routeguard.Redirect:
		c.Header("X-Auth-Redirect", decision.Target)
		c.Status(http.StatusOK)
	default:
		c.Header("X-Forwarded-User", email)
		c.Header("X-Forwarded-Groups", role)
		c.Status(http.StatusOK)
	}
}
