package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/models"
)

// AccommodationForm carries the mutable fields of an accommodation.
type AccommodationForm struct {
	Name     string
	City     string
	State    string
	Capacity int
	Status   string
}

// SettingsService owns application settings and the accommodation
// directory. Mutations record settings-category audit entries.
type SettingsService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewSettingsService(db *gorm.DB, audit *AuditService) *SettingsService {
	return &SettingsService{db: db, audit: audit}
}

// Settings returns all settings as a key/value map.
func (s *SettingsService) Settings() (map[string]string, error) {
	var settings []models.Setting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}

	out := make(map[string]string, len(settings))
	for _, st := range settings {
		out[st.Key] = st.Value
	}
	return out, nil
}

// UpsertSetting creates or updates a setting by key.
func (s *SettingsService) UpsertSetting(actor Actor, key, value, category, typ string) (*models.Setting, error) {
	setting := models.Setting{Key: key, Value: value, Category: category, Type: typ}
	if err := s.db.Where(models.Setting{Key: key}).Assign(setting).FirstOrCreate(&setting).Error; err != nil {
		return nil, fmt.Errorf("save setting: %w", err)
	}

	s.record(actor, "Setting Update", fmt.Sprintf("Updated setting: %s", key))
	return &setting, nil
}

// Accommodations returns the directory, newest first.
func (s *SettingsService) Accommodations() ([]models.Accommodation, error) {
	var accs []models.Accommodation
	if err := s.db.Order("created_at DESC, id DESC").Find(&accs).Error; err != nil {
		return nil, fmt.Errorf("list accommodations: %w", err)
	}
	return accs, nil
}

// CreateAccommodation adds an accommodation to the directory.
func (s *SettingsService) CreateAccommodation(actor Actor, form AccommodationForm) (*models.Accommodation, error) {
	acc := models.Accommodation{
		Name:     form.Name,
		City:     form.City,
		State:    form.State,
		Capacity: form.Capacity,
		Status:   orDefault(form.Status, models.StatusActive),
	}

	if err := s.db.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("create accommodation: %w", err)
	}

	s.record(actor, "Accommodation Creation", fmt.Sprintf("Created accommodation: %s", acc.Name))
	return &acc, nil
}

// UpdateAccommodation merges non-empty form fields. A miss returns
// found=false with no error.
func (s *SettingsService) UpdateAccommodation(actor Actor, id uint, form AccommodationForm) (bool, error) {
	var acc models.Accommodation
	if err := s.db.First(&acc, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load accommodation: %w", err)
	}

	updates := make(map[string]interface{})
	if form.Name != "" {
		updates["name"] = form.Name
	}
	if form.City != "" {
		updates["city"] = form.City
	}
	if form.State != "" {
		updates["state"] = form.State
	}
	if form.Capacity > 0 {
		updates["capacity"] = form.Capacity
	}
	if form.Status != "" {
		updates["status"] = form.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(&acc).Updates(updates).Error; err != nil {
			return false, fmt.Errorf("update accommodation: %w", err)
		}
	}

	s.record(actor, "Accommodation Update", fmt.Sprintf("Updated accommodation: %s", acc.Name))
	return true, nil
}

// DeleteAccommodation removes an accommodation. A miss returns
// found=false with no error.
func (s *SettingsService) DeleteAccommodation(actor Actor, id uint) (bool, error) {
	var acc models.Accommodation
	if err := s.db.First(&acc, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load accommodation: %w", err)
	}

	if err := s.db.Delete(&acc).Error; err != nil {
		return false, fmt.Errorf("delete accommodation: %w", err)
	}

	s.record(actor, "Accommodation Deletion", fmt.Sprintf("Deleted accommodation: %s", acc.Name))
	return true, nil
}

func (s *SettingsService) record(actor Actor, action, details string) {
	if err := s.audit.Record(actor, action, models.CategorySettings, details, ""); err != nil {
		logger.Log().WithError(err).Warn("failed to record settings audit entry")
	}
}
