package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/models"
	"github.com/nahcon/mealtrack/internal/services"
)

type MealRequestHandler struct {
	requests *services.MealRequestService
	users    *services.UserService
}

func NewMealRequestHandler(requests *services.MealRequestService, users *services.UserService) *MealRequestHandler {
	return &MealRequestHandler{requests: requests, users: users}
}

type MealRequestInput struct {
	MealType           string    `json:"meal_type" binding:"required"`
	Menu               string    `json:"menu" binding:"required"`
	DeliveryAt         time.Time `json:"delivery_at" binding:"required"`
	TotalPilgrims      int       `json:"total_pilgrims" binding:"required,min=1"`
	SpecialDietCount   int       `json:"special_diet_count"`
	SpecialDietDetails string    `json:"special_diet_details"`
	AdditionalNotes    string    `json:"additional_notes"`
}

// Create opens a meal request stamped with the requester's affiliations.
func (h *MealRequestHandler) Create(c *gin.Context) {
	var req MealRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requester, ok := h.currentUser(c)
	if !ok {
		return
	}

	form := services.MealRequestForm{
		MealType:           req.MealType,
		Menu:               req.Menu,
		DeliveryAt:         req.DeliveryAt,
		TotalPilgrims:      req.TotalPilgrims,
		SpecialDietCount:   req.SpecialDietCount,
		SpecialDietDetails: req.SpecialDietDetails,
		AdditionalNotes:    req.AdditionalNotes,
	}

	created, err := h.requests.Create(middleware.CurrentActor(c), requester, form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns requests scoped to the caller's affiliations.
func (h *MealRequestHandler) List(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	reqs, err := h.requests.ListFor(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch meal requests"})
		return
	}

	c.JSON(http.StatusOK, reqs)
}

type StatusInput struct {
	Status string `json:"status" binding:"required,oneof=Approved Rejected"`
}

// SetStatus approves or rejects a pending request.
func (h *MealRequestHandler) SetStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req StatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := h.requests.SetStatus(middleware.CurrentActor(c), id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meal request"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal request updated"})
}

// Deliver confirms delivery of an approved request.
func (h *MealRequestHandler) Deliver(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.requests.MarkDelivered(middleware.CurrentActor(c), id)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update meal request"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal request not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Meal request marked as delivered"})
}

func (h *MealRequestHandler) currentUser(c *gin.Context) (*models.User, bool) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	user, err := h.users.Get(userID.(uint))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return nil, false
	}
	return user, true
}
