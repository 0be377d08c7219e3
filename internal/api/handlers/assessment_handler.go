package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/models"
	"github.com/nahcon/mealtrack/internal/services"
)

type AssessmentHandler struct {
	assessments *services.AssessmentService
	users       *services.UserService
}

func NewAssessmentHandler(assessments *services.AssessmentService, users *services.UserService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, users: users}
}

type AssessmentInput struct {
	State         string `json:"state" binding:"required"`
	Accommodation string `json:"accommodation" binding:"required"`
	Caterer       string `json:"caterer" binding:"required"`
	MealType      string `json:"meal_type" binding:"required"`
	DeliveryTime  string `json:"delivery_time"`
	Delivered     int    `json:"delivered" binding:"required,min=1"`
	Served        int    `json:"served" binding:"min=0"`
	Menu          string `json:"menu"`
}

// Create records a meal assessment.
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req AssessmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := services.AssessmentForm{
		State:         req.State,
		Accommodation: req.Accommodation,
		Caterer:       req.Caterer,
		MealType:      req.MealType,
		DeliveryTime:  req.DeliveryTime,
		Delivered:     req.Delivered,
		Served:        req.Served,
		Menu:          req.Menu,
	}

	assessment, err := h.assessments.Create(middleware.CurrentActor(c), form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

// List returns assessments scoped to the caller's affiliations.
func (h *AssessmentHandler) List(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.users.Get(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	assessments, err := h.assessments.ListFor(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assessments"})
		return
	}

	c.JSON(http.StatusOK, assessments)
}

// Get returns one assessment with its review sheets.
func (h *AssessmentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assessment, err := h.assessments.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		return
	}
	c.JSON(http.StatusOK, assessment)
}

type ReviewInput struct {
	FoodQuality  string `json:"food_quality" binding:"required,oneof=Adequate Inadequate"`
	FoodQuantity string `json:"food_quantity" binding:"required,oneof=Adequate Inadequate"`
	SpecialDiet  string `json:"special_diet" binding:"required,oneof=Adequate Inadequate"`
	Utensils     string `json:"utensils" binding:"required,oneof=Adequate Inadequate"`
	Decision     string `json:"decision" binding:"required,oneof=Approve Reject"`
	Remarks      string `json:"remarks"`
}

// Review files a verdict sheet on the caller's review track. State
// representatives review the state track, kitchen representatives the
// kitchen track.
func (h *AssessmentHandler) Review(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := c.Get(middleware.ContextRole)
	var reviewer string
	switch role {
	case models.RoleKitchenRep:
		reviewer = models.ReviewerKitchen
	default:
		reviewer = models.ReviewerState
	}

	form := services.ReviewForm{
		FoodQuality:  req.FoodQuality,
		FoodQuantity: req.FoodQuantity,
		SpecialDiet:  req.SpecialDiet,
		Utensils:     req.Utensils,
		Decision:     req.Decision,
		Remarks:      req.Remarks,
	}

	found, err := h.assessments.Review(middleware.CurrentActor(c), id, reviewer, form)
	if err != nil {
		if errors.Is(err, services.ErrUnknownReviewer) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review assessment"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review recorded"})
}
