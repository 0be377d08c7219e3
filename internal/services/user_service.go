package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/models"
)

// UserForm carries the mutable fields of a user. Empty fields are left
// untouched on update.
type UserForm struct {
	Name    string
	Email   string
	Role    string
	State   string
	Kitchen string
	Status  string
}

// UserService owns the user registry. Every successful mutation records
// exactly one user_management audit entry attributed to the acting
// identity.
type UserService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{db: db, audit: audit}
}

// Create inserts a new user and returns the created record.
func (s *UserService) Create(actor Actor, form UserForm, password string) (*models.User, error) {
	user := models.User{
		Name:    form.Name,
		Email:   strings.ToLower(form.Email),
		Role:    form.Role,
		State:   orDefault(form.State, models.AffiliationAll),
		Kitchen: orDefault(form.Kitchen, models.AffiliationAll),
		Status:  orDefault(form.Status, models.StatusActive),
	}

	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.record(actor, "User Creation", fmt.Sprintf("Created new user: %s", user.Email))
	return &user, nil
}

// Update merges non-empty form fields into the user. A miss returns
// found=false with no error and records nothing.
func (s *UserService) Update(actor Actor, id uint, form UserForm) (bool, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}

	updates := make(map[string]interface{})
	if form.Name != "" {
		updates["name"] = form.Name
	}
	if form.Email != "" {
		updates["email"] = strings.ToLower(form.Email)
	}
	if form.Role != "" {
		updates["role"] = form.Role
	}
	if form.State != "" {
		updates["state"] = form.State
	}
	if form.Kitchen != "" {
		updates["kitchen"] = form.Kitchen
	}
	if form.Status != "" {
		updates["status"] = form.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return false, fmt.Errorf("update user: %w", err)
		}
	}

	s.record(actor, "User Update", fmt.Sprintf("Updated user: %s", user.Email))
	return true, nil
}

// Delete removes a user by id. A miss returns found=false with no error
// and records nothing. Historical audit entries keep their actor
// snapshots; nothing cascades.
func (s *UserService) Delete(actor Actor, id uint) (bool, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load user: %w", err)
	}

	if err := s.db.Delete(&user).Error; err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	s.record(actor, "User Deletion", fmt.Sprintf("Deleted user: %s", user.Email))
	return true, nil
}

// Get is a pure lookup.
func (s *UserService) Get(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, newest first.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EmailTaken reports whether another user already holds the email.
func (s *UserService) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? AND id != ?", strings.ToLower(email), excludeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func (s *UserService) record(actor Actor, action, details string) {
	if err := s.audit.Record(actor, action, models.CategoryUserManagement, details, ""); err != nil {
		logger.Log().WithError(err).Warn("failed to record user audit entry")
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
