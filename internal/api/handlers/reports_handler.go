package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/api/middleware"
	"github.com/nahcon/mealtrack/internal/services"
)

type ReportsHandler struct {
	assessments *services.AssessmentService
	users       *services.UserService
}

func NewReportsHandler(assessments *services.AssessmentService, users *services.UserService) *ReportsHandler {
	return &ReportsHandler{assessments: assessments, users: users}
}

// Summary returns the reports payload scoped to the caller: state
// representatives see only their state, kitchen representatives only
// their kitchen.
func (h *ReportsHandler) Summary(c *gin.Context) {
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

	summary, err := h.assessments.Report(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
