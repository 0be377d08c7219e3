package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/config"
	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/metrics"
	"github.com/nahcon/mealtrack/internal/models"
)

var (
	// ErrUserNotFound signals a lookup miss on the login email.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials signals a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive signals a login attempt against an Inactive account.
	ErrUserInactive = errors.New("account inactive")
)

const tokenTTL = 24 * time.Hour

// Claims are the JWT claims issued on login.
type Claims struct {
	UserID uint   `json:"user_id"`
	UUID   string `json:"uuid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates users and issues session tokens.
type AuthService struct {
	db     *gorm.DB
	audit  *AuditService
	secret []byte
}

func NewAuthService(db *gorm.DB, audit *AuditService, cfg config.Config) *AuthService {
	return &AuthService{db: db, audit: audit, secret: []byte(cfg.JWTSecret)}
}

// Login authenticates by case-insensitive email and password. A success
// records exactly one authentication audit entry; failures record none.
func (s *AuthService) Login(email, password, ip string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.IncLoginFailure()
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if !user.CheckPassword(password) {
		metrics.IncLoginFailure()
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive() {
		metrics.IncLoginFailure()
		return nil, "", ErrUserInactive
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}

	if err := s.audit.Record(s.actorFor(&user), "Login", models.CategoryAuthentication,
		fmt.Sprintf("User logged in: %s", user.Email), ip); err != nil {
		logger.Log().WithError(err).Warn("failed to record login audit entry")
	}
	metrics.IncLogin()

	return &user, token, nil
}

// Logout records the outgoing identity. Calling without a resolvable
// actor is a no-op, which makes repeated logouts idempotent.
func (s *AuthService) Logout(actor Actor, ip string) {
	if actor.Empty() {
		return
	}
	if err := s.audit.Record(actor, "Logout", models.CategoryAuthentication,
		fmt.Sprintf("User logged out: %s", actor.Email), ip); err != nil {
		logger.Log().WithError(err).Warn("failed to record logout audit entry")
	}
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// GetUserByID loads a user for session resolution.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		UUID:   user.UUID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			Subject:   user.UUID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) actorFor(user *models.User) Actor {
	return Actor{ID: user.ID, Email: user.Email, Role: user.Role}
}
