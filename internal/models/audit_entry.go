package models

import (
	"time"
)

// Category is the closed set of audit entry categories.
type Category string

const (
	CategoryAuthentication Category = "authentication"
	CategoryMealAssessment Category = "meal_assessment"
	CategoryUserManagement Category = "user_management"
	CategorySettings       Category = "settings"
	CategoryMealRequest    Category = "meal_request"
)

// Categories lists every valid audit category.
func Categories() []Category {
	return []Category{
		CategoryAuthentication,
		CategoryMealAssessment,
		CategoryUserManagement,
		CategorySettings,
		CategoryMealRequest,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryAuthentication, CategoryMealAssessment, CategoryUserManagement,
		CategorySettings, CategoryMealRequest:
		return true
	}
	return false
}

// AuditEntry records a security- or data-relevant action. Entries are
// append-only: nothing in the service layer updates or deletes them.
// The actor fields are snapshots taken at record time, not references
// into the user registry.
type AuditEntry struct {
	// ID is a ULID, so lexical order matches creation order.
	ID         string    `json:"id" gorm:"primaryKey"`
	ActorID    uint      `json:"actor_id"`
	ActorEmail string    `json:"actor_email"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	Category   Category  `json:"category" gorm:"index"`
	Details    string    `json:"details" gorm:"type:text"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}
