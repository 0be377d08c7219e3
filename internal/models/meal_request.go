package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal types served by kitchens.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
)

// Meal request statuses.
const (
	RequestPending   = "Pending"
	RequestApproved  = "Approved"
	RequestRejected  = "Rejected"
	RequestDelivered = "Delivered"
)

// ValidMealType reports whether t is a known meal type.
func ValidMealType(t string) bool {
	return t == MealBreakfast || t == MealLunch || t == MealDinner
}

// MealRequest is a state representative's request for a kitchen delivery.
type MealRequest struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	UUID               string    `json:"uuid" gorm:"uniqueIndex"`
	State              string    `json:"state" gorm:"index"`
	Kitchen            string    `json:"kitchen" gorm:"index"`
	MealType           string    `json:"meal_type"`
	Menu               string    `json:"menu"`
	DeliveryAt         time.Time `json:"delivery_at"`
	TotalPilgrims      int       `json:"total_pilgrims"`
	SpecialDietCount   int       `json:"special_diet_count"`
	SpecialDietDetails string    `json:"special_diet_details"`
	AdditionalNotes    string    `json:"additional_notes"`
	Status             string    `json:"status" gorm:"default:'Pending'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for new meal requests.
func (m *MealRequest) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == "" {
		m.UUID = uuid.New().String()
	}
	return nil
}
