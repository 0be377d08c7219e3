package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review statuses for the state and kitchen review tracks.
const (
	ReviewPending  = "Pending"
	ReviewApproved = "Approved"
	ReviewRejected = "Rejected"
)

// Review verdicts for individual assessment criteria.
const (
	VerdictAdequate   = "Adequate"
	VerdictInadequate = "Inadequate"
)

// Review decisions.
const (
	DecisionApprove = "Approve"
	DecisionReject  = "Reject"
)

// MealAssessment captures a delivered meal at an accommodation together
// with the state and kitchen review tracks. Each track moves from Pending
// to Approved or Rejected independently.
type MealAssessment struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UUID          string    `json:"uuid" gorm:"uniqueIndex"`
	State         string    `json:"state" gorm:"index"`
	Accommodation string    `json:"accommodation"`
	Caterer       string    `json:"caterer" gorm:"index"` // kitchen name
	MealType      string    `json:"meal_type"`
	DeliveryTime  string    `json:"delivery_time"`
	Delivered     int       `json:"delivered"`
	Served        int       `json:"served"`
	Shortfall     int       `json:"shortfall"`
	Menu          string    `json:"menu"`
	StateReview   string    `json:"state_review" gorm:"default:'Pending'"`
	KitchenReview string    `json:"kitchen_review" gorm:"default:'Pending'"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Reviews []AssessmentReview `json:"reviews,omitempty"`
}

// BeforeCreate generates a UUID and derives the shortfall for new assessments.
func (a *MealAssessment) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	if a.Shortfall == 0 && a.Delivered > a.Served {
		a.Shortfall = a.Delivered - a.Served
	}
	return nil
}

// AssessmentReview is a single reviewer's verdict sheet for an assessment.
// Reviewer is either "state" or "kitchen".
type AssessmentReview struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	MealAssessmentID uint      `json:"meal_assessment_id" gorm:"index"`
	Reviewer         string    `json:"reviewer"`
	FoodQuality      string    `json:"food_quality"`
	FoodQuantity     string    `json:"food_quantity"`
	SpecialDiet      string    `json:"special_diet"`
	Utensils         string    `json:"utensils"`
	Decision         string    `json:"decision"`
	Remarks          string    `json:"remarks" gorm:"type:text"`
	CreatedAt        time.Time `json:"created_at"`
}

// Reviewer kinds.
const (
	ReviewerState   = "state"
	ReviewerKitchen = "kitchen"
)
