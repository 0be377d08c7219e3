package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/logger"
	"github.com/nahcon/mealtrack/internal/models"
)

// ErrUnknownReviewer signals a review track other than state or kitchen.
var ErrUnknownReviewer = errors.New("unknown reviewer kind")

// AssessmentForm carries the fields of a submitted meal assessment.
type AssessmentForm struct {
	State         string
	Accommodation string
	Caterer       string
	MealType      string
	DeliveryTime  string
	Delivered     int
	Served        int
	Menu          string
}

// ReviewForm carries one reviewer's verdict sheet.
type ReviewForm struct {
	FoodQuality  string
	FoodQuantity string
	SpecialDiet  string
	Utensils     string
	Decision     string
	Remarks      string
}

// AssessmentService owns meal assessments and their two independent
// review tracks.
type AssessmentService struct {
	db    *gorm.DB
	audit *AuditService
}

func NewAssessmentService(db *gorm.DB, audit *AuditService) *AssessmentService {
	return &AssessmentService{db: db, audit: audit}
}

// Create records a new assessment with both review tracks Pending.
func (s *AssessmentService) Create(actor Actor, form AssessmentForm) (*models.MealAssessment, error) {
	if !models.ValidMealType(form.MealType) {
		return nil, fmt.Errorf("unknown meal type %q", form.MealType)
	}

	assessment := models.MealAssessment{
		State:         form.State,
		Accommodation: form.Accommodation,
		Caterer:       form.Caterer,
		MealType:      form.MealType,
		DeliveryTime:  form.DeliveryTime,
		Delivered:     form.Delivered,
		Served:        form.Served,
		Menu:          form.Menu,
		StateReview:   models.ReviewPending,
		KitchenReview: models.ReviewPending,
	}

	if err := s.db.Create(&assessment).Error; err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	s.record(actor, "Meal Assessment",
		fmt.Sprintf("Submitted meal assessment for %s - %s", assessment.State, assessment.MealType))
	return &assessment, nil
}

// ListFor returns assessments visible to the user, newest first. State
// representatives see their state, kitchen representatives their caterer.
func (s *AssessmentService) ListFor(user *models.User) ([]models.MealAssessment, error) {
	q := s.db.Model(&models.MealAssessment{})
	if user.State != models.AffiliationAll {
		q = q.Where("state = ?", user.State)
	}
	if user.Kitchen != models.AffiliationAll {
		q = q.Where("caterer = ?", user.Kitchen)
	}

	var assessments []models.MealAssessment
	if err := q.Order("created_at DESC, id DESC").Find(&assessments).Error; err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}

// Get loads an assessment with its reviews.
func (s *AssessmentService) Get(id uint) (*models.MealAssessment, error) {
	var assessment models.MealAssessment
	if err := s.db.Preload("Reviews").First(&assessment, id).Error; err != nil {
		return nil, err
	}
	return &assessment, nil
}

// Review files one reviewer's verdict sheet and moves that track to
// Approved or Rejected. A miss returns found=false with no error.
func (s *AssessmentService) Review(actor Actor, id uint, reviewer string, form ReviewForm) (bool, error) {
	if reviewer != models.ReviewerState && reviewer != models.ReviewerKitchen {
		return false, fmt.Errorf("%w: %s", ErrUnknownReviewer, reviewer)
	}
	if form.Decision != models.DecisionApprove && form.Decision != models.DecisionReject {
		return false, fmt.Errorf("unknown decision %q", form.Decision)
	}

	var assessment models.MealAssessment
	if err := s.db.First(&assessment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("load assessment: %w", err)
	}

	outcome := models.ReviewApproved
	if form.Decision == models.DecisionReject {
		outcome = models.ReviewRejected
	}

	column := "state_review"
	if reviewer == models.ReviewerKitchen {
		column = "kitchen_review"
	}

	review := models.AssessmentReview{
		MealAssessmentID: assessment.ID,
		Reviewer:         reviewer,
		FoodQuality:      form.FoodQuality,
		FoodQuantity:     form.FoodQuantity,
		SpecialDiet:      form.SpecialDiet,
		Utensils:         form.Utensils,
		Decision:         form.Decision,
		Remarks:          form.Remarks,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return tx.Model(&assessment).Update(column, outcome).Error
	})
	if err != nil {
		return false, fmt.Errorf("review assessment: %w", err)
	}

	s.record(actor, "Assessment Review",
		fmt.Sprintf("%s review: %s assessment for %s - %s", reviewer, outcome, assessment.State, assessment.MealType))
	return true, nil
}

// StatusCounts aggregates meal requests by workflow status.
type StatusCounts struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Delivered int64 `json:"delivered"`
}

// PerformanceRow aggregates assessments for one state or kitchen.
type PerformanceRow struct {
	Name        string `json:"name"`
	Assessments int64  `json:"assessments"`
	Served      int64  `json:"served"`
	Delivered   int64  `json:"delivered"`
}

// ReportSummary is the role-scoped reports payload.
type ReportSummary struct {
	Requests    StatusCounts     `json:"requests"`
	Assessments int64            `json:"assessments"`
	States      []PerformanceRow `json:"states"`
	Kitchens    []PerformanceRow `json:"kitchens"`
}

// Report builds the summary scoped to the user's affiliations.
func (s *AssessmentService) Report(user *models.User) (*ReportSummary, error) {
	summary := &ReportSummary{}

	reqQ := s.db.Model(&models.MealRequest{})
	asmQ := s.db.Model(&models.MealAssessment{})
	if user.State != models.AffiliationAll {
		reqQ = reqQ.Where("state = ?", user.State)
		asmQ = asmQ.Where("state = ?", user.State)
	}
	if user.Kitchen != models.AffiliationAll {
		reqQ = reqQ.Where("kitchen = ?", user.Kitchen)
		asmQ = asmQ.Where("caterer = ?", user.Kitchen)
	}

	type statusCount struct {
		Status string
		N      int64
	}
	var byStatus []statusCount
	if err := reqQ.Select("status, COUNT(*) AS n").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("request counts: %w", err)
	}
	for _, sc := range byStatus {
		switch sc.Status {
		case models.RequestPending:
			summary.Requests.Pending = sc.N
		case models.RequestApproved:
			summary.Requests.Approved = sc.N
		case models.RequestRejected:
			summary.Requests.Rejected = sc.N
		case models.RequestDelivered:
			summary.Requests.Delivered = sc.N
		}
	}

	if err := asmQ.Count(&summary.Assessments).Error; err != nil {
		return nil, fmt.Errorf("assessment count: %w", err)
	}

	var err error
	if summary.States, err = s.performance("state", user); err != nil {
		return nil, err
	}
	if summary.Kitchens, err = s.performance("caterer", user); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *AssessmentService) performance(column string, user *models.User) ([]PerformanceRow, error) {
	q := s.db.Model(&models.MealAssessment{})
	if user.State != models.AffiliationAll {
		q = q.Where("state = ?", user.State)
	}
	if user.Kitchen != models.AffiliationAll {
		q = q.Where("caterer = ?", user.Kitchen)
	}

	var rows []PerformanceRow
	if err := q.Select(column + " AS name, COUNT(*) AS assessments, SUM(served) AS served, SUM(delivered) AS delivered").
		Group(column).Order(column).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("performance by %s: %w", column, err)
	}
	return rows, nil
}

func (s *AssessmentService) record(actor Actor, action, details string) {
	if err := s.audit.Record(actor, action, models.CategoryMealAssessment, details, ""); err != nil {
		logger.Log().WithError(err).Warn("failed to record assessment audit entry")
	}
}
