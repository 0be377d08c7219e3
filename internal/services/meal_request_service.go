package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/models"
)

// ErrInvalidTransition signals a meal request status change that the
// workflow does not allow.
var ErrInvalidTransition = errors.New("invalid meal request status transition")

// MealRequestForm carries the fields a state representative submits.
type MealRequestForm struct {
	MealType           string
	Menu               string
	DeliveryAt         time.Time
	TotalPilgrims      int
	SpecialDietCount   int
	SpecialDietDetails string
	AdditionalNotes    string
}

// MealRequestService owns the meal request workflow:
// Pending -> Approved|Rejected, Approved -> Delivered.
type MealRequestService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewMealRequestService(db *gorm.DB, audit *AuditService) *MealRequestService {
	return &MealRequestService{db: db, audit: audit}
}

// Create opens a Pending request stamped with the requester's state and
// kitchen affiliation.
func (s *MealRequestService) Create(actor Actor, requester *models.User, form MealRequestForm) (*models.MealRequest, error) {
	if !models.ValidMealType(form.MealType) {
		return nil, fmt.Errorf("unknown meal type %q", form.MealType)
	}

	req := models.MealRequest{
		State:              requester.State,
		Kitchen:            requester.Kitchen,
		MealType:           form.MealType,
		Menu:               form.Menu,
		DeliveryAt:         form.DeliveryAt,
		TotalPilgrims:      form.TotalPilgrims,
		SpecialDietCount:   form.SpecialDietCount,
		SpecialDietDetails: form.SpecialDietDetails,
		AdditionalNotes:    form.AdditionalNotes,
		Status:             models.RequestPending,
	}

	if err := s.db.Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create meal request: %w", err)
	}

	s.record(actor, "Meal Request",
		fmt.Sprintf("Created meal request for %s - %s", req.State, req.MealType))
	return &req, nil
}

// ListFor returns requests visible to the user: state representatives see
// their state, kitchen representatives their kitchen, "All" affiliations
// see everything. Newest first.
func (s *MealRequestService) ListFor(user *models.User) ([]models.MealRequest, error) {
	q := s.db.Model(&models.MealRequest{})
	if user.State != models.AffiliationAll {
		q = q.Where("state = ?", user.State)
	}
	if user.Kitchen != models.AffiliationAll {
		q = q.Where("kitchen = ?", user.Kitchen)
	}

	var reqs []models.MealRequest
	if err := q.Order("created_at DESC, id DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list meal requests: %w", err)
	}
	return reqs, nil
}

// Get is a pure lookup.
func (s *MealRequestService) Get(id uint) (*models.MealRequest, error) {
	var req models.MealRequest
	if err := s.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// SetStatus approves or rejects a Pending request. A miss returns
// found=false with no error.
func (s *MealRequestService) SetStatus(actor Actor, id uint, status string) (bool, error) {
	if status != models.RequestApproved && status != models.RequestRejected {
		return false, fmt.Errorf("%w: %s", ErrInvalidTransition, status)
	}

	var req models.MealRequest
	if err := s.db.First(&req, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load meal request: %w", err)
	}

	if req.Status != models.RequestPending {
		return true, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, status)
	}

	if err := s.db.Model(&req).Update("status", status).Error; err != nil {
		return false, fmt.Errorf("update meal request: %w", err)
	}

	s.record(actor, "Meal Request Review",
		fmt.Sprintf("%s meal request for %s - %s", status, req.State, req.MealType))
	return true, nil
}

// MarkDelivered confirms delivery of an Approved request. A miss returns
// found=false with no error.
func (s *MealRequestService) MarkDelivered(actor Actor, id uint) (bool, error) {
	var req models.MealRequest
	if err := s.db.First(&req, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load meal request: %w", err)
	}

	if req.Status != models.RequestApproved {
		return true, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, req.Status, models.RequestDelivered)
	}

	if err := s.db.Model(&req).Update("status", models.RequestDelivered).Error; err != nil {
		return false, fmt.Errorf("update meal request: %w", err)
	}

	s.record(actor, "Meal Delivery",
		fmt.Sprintf("Marked meal request as delivered for %s - %s", req.State, req.MealType))
	return true, nil
}

func (s *MealRequestService) record(actor Actor, action, details string) {
	if err := s.audit.Record(actor, action, models.CategoryMealRequest, details, ""); err != nil {
		logger.Log().WithError(err).Warn("failed to record meal request audit entry")
	}
}
