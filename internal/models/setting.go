package models

import "time"

// Setting is a key/value application setting.
type Setting struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Key      string `json:"key" gorm:"uniqueIndex"`
	Value    string `json:"value"`
	Type     string `json:"type"`
	Category string `json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
