package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Accommodation is a pilgrim lodging site served by the catering program.
type Accommodation struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UUID     string `json:"uuid" gorm:"uniqueIndex"`
	Name     string `json:"name"`
	City     string `json:"city"`
	State    string `json:"state" gorm:"index"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status" gorm:"default:'Active'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for new accommodations.
func (a *Accommodation) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}
