package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names shipped with the system.
const (
	RoleAdministrator = "Administrator"
	RoleNAHCONStaff   = "NAHCON Staff"
	RoleStateRep      = "State Representative"
	RoleKitchenRep    = "Kitchen Representative"
)

// Privileges is a set of privilege labels stored as a JSON text column.
type Privileges []string

// Value implements driver.Valuer.
func (p Privileges) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *Privileges) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(v, (*[]string)(p))
	case string:
		return json.Unmarshal([]byte(v), (*[]string)(p))
	default:
		return fmt.Errorf("unsupported privileges column type %T", value)
	}
}

// Role bundles a description and a set of privilege labels under a unique name.
type Role struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UUID        string     `json:"uuid" gorm:"uniqueIndex"`
	Name        string     `json:"name" gorm:"uniqueIndex"`
	Description string     `json:"description"`
	Privileges  Privileges `json:"privileges" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for new roles.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.New().String()
	}
	return nil
}

// HasPrivilege reports whether the role grants the given privilege label.
func (r *Role) HasPrivilege(label string) bool {
	for _, p := range r.Privileges {
		if p == label {
			return true
		}
	}
	return false
}
