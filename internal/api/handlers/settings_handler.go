package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/services"
)

type SettingsHandler struct {
	settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func (h *SettingsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.GetSettings)
	r.POST("/settings", h.UpdateSetting)
	r.GET("/settings/accommodations", h.ListAccommodations)
	r.POST("/settings/accommodations", h.CreateAccommodation)
	r.PUT("/settings/accommodations/:id", h.UpdateAccommodation)
	r.DELETE("/settings/accommodations/:id", h.DeleteAccommodation)
}

// GetSettings returns all settings as a key/value map.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Settings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

type UpdateSettingRequest struct {
	Key      string `json:"key" binding:"required"`
	Value    string `json:"value" binding:"required"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// UpdateSetting updates or creates a setting.
func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	setting, err := h.settings.UpsertSetting(middleware.CurrentActor(c), req.Key, req.Value, req.Category, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
		return
	}

	c.JSON(http.StatusOK, setting)
}

// ListAccommodations returns the accommodation directory.
func (h *SettingsHandler) ListAccommodations(c *gin.Context) {
	accs, err := h.settings.Accommodations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accommodations"})
		return
	}
	c.JSON(http.StatusOK, accs)
}

type AccommodationRequest struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	State    string `json:"state"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// CreateAccommodation adds an accommodation.
func (h *SettingsHandler) CreateAccommodation(c *gin.Context) {
	var req AccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Accommodation name required"})
		return
	}

	form := services.AccommodationForm{
		Name:     req.Name,
		City:     req.City,
		State:    req.State,
		Capacity: req.Capacity,
		Status:   req.Status,
	}

	acc, err := h.settings.CreateAccommodation(middleware.CurrentActor(c), form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create accommodation"})
		return
	}

	c.JSON(http.StatusCreated, acc)
}

// UpdateAccommodation merges the supplied fields.
func (h *SettingsHandler) UpdateAccommodation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req AccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form := services.AccommodationForm{
		Name:     req.Name,
		City:     req.City,
		State:    req.State,
		Capacity: req.Capacity,
		Status:   req.Status,
	}

	found, err := h.settings.UpdateAccommodation(middleware.CurrentActor(c), id, form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update accommodation"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Accommodation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accommodation updated successfully"})
}

// DeleteAccommodation removes an accommodation.
func (h *SettingsHandler) DeleteAccommodation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.settings.DeleteAccommodation(middleware.CurrentActor(c), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete accommodation"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Accommodation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Accommodation deleted successfully"})
}
