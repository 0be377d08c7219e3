package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/models"
)

// RoleForm carries the mutable fields of a role.
type RoleForm struct {
	Name        string
	Description string
	Privileges  []string
}

// RoleService owns the role registry. Role deletion does not touch users
// referencing the role by name; that gap is deliberate and covered by
// tests.
type RoleService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewRoleService(db *gorm.DB, audit *AuditService) *RoleService {
	return &RoleService{db: db, audit: audit}
}

// Create inserts a new role and returns the created record.
func (s *RoleService) Create(actor Actor, form RoleForm) (*models.Role, error) {
	role := models.Role{
		Name:        form.Name,
		Description: form.Description,
		Privileges:  models.Privileges(form.Privileges),
	}

	if err := s.db.Create(&role).Error; err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}

	s.record(actor, "Role Creation", fmt.Sprintf("Created new role: %s", role.Name))
	return &role, nil
}

// Update merges non-empty form fields into the role. A miss returns
// found=false with no error and records nothing.
func (s *RoleService) Update(actor Actor, id uint, form RoleForm) (bool, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load role: %w", err)
	}

	updates := make(map[string]interface{})
	if form.Name != "" {
		updates["name"] = form.Name
		role.Name = form.Name
	}
	if form.Description != "" {
		updates["description"] = form.Description
	}
	if form.Privileges != nil {
		updates["privileges"] = models.Privileges(form.Privileges)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&role).Updates(updates).Error; err != nil {
			return false, fmt.Errorf("update role: %w", err)
		}
	}

	s.record(actor, "Role Update", fmt.Sprintf("Updated role: %s", role.Name))
	return true, nil
}

// Delete removes a role by id. Users referencing the role keep their role
// field unchanged. A miss returns found=false with no error.
func (s *RoleService) Delete(actor Actor, id uint) (bool, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load role: %w", err)
	}

	if err := s.db.Delete(&role).Error; err != nil {
		return false, fmt.Errorf("delete role: %w", err)
	}

	s.record(actor, "Role Deletion", fmt.Sprintf("Deleted role: %s", role.Name))
	return true, nil
}

// Get is a pure lookup.
func (s *RoleService) Get(id uint) (*models.Role, error) {
	var role models.Role
	if err := s.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName looks a role up by its unique name.
func (s *RoleService) GetByName(name string) (*models.Role, error) {
	var role models.Role
	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// List returns all roles, newest first.
func (s *RoleService) List() ([]models.Role, error) {
	var roles []models.Role
	if err := s.db.Order("created_at DESC, id DESC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) record(actor Actor, action, details string) {
	if err := s.audit.Record(actor, action, models.CategoryUserManagement, details, ""); err != nil {
		logger.Log().WithError(err).Warn("failed to record role audit entry")
	}
}
