package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User status values.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// AffiliationAll marks a user as unscoped for a state or kitchen dimension.
const AffiliationAll = "All"

// User represents a system user with a role and organizational affiliation.
// Role is stored by name; deleting a Role does not touch users referencing
// it, matching the registry contract.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UUID         string `json:"uuid" gorm:"uniqueIndex"`
	Email        string `json:"email" gorm:"uniqueIndex"` // stored lowercase
	PasswordHash string `json:"-"`                        // Never serialize password hash
	Name         string `json:"name"`
	Role         string `json:"role"`
	State        string `json:"state" gorm:"default:'All'"`
	Kitchen      string `json:"kitchen" gorm:"default:'All'"`
	Status       string `json:"status" gorm:"default:'Active'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID and normalizes the email for new users.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.New().String()
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

// SetPassword hashes and sets the user's password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the provided password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// IsActive reports whether the user may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// CoversState reports whether the user's state affiliation covers the given state.
func (u *User) CoversState(state string) bool {
	return u.State == AffiliationAll || u.State == state
}

// CoversKitchen reports whether the user's kitchen affiliation covers the given kitchen.
func (u *User) CoversKitchen(kitchen string) bool {
	return u.Kitchen == AffiliationAll || u.Kitchen == kitchen
}
