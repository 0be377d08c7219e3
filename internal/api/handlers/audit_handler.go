package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nahcon/mealtrack/internal/models"
	"github.com/nahcon/mealtrack/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

func (h *AuditHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/audit", h.List)
	r.GET("/audit/export", h.Export)
}

// List returns audit entries newest-first. Query params: search (free
// text across action, actor email and details), category, from, to
// (inclusive, RFC3339 or YYYY-MM-DD).
func (h *AuditHandler) List(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	entries, err := h.audit.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Export streams the filtered audit log as CSV with the dated filename.
func (h *AuditHandler) Export(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	entries, err := h.audit.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	filename := services.ExportFilename(time.Now())
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := services.WriteCSV(c.Writer, entries); err != nil {
		// Headers already sent, nothing more to do than abort.
		c.Abort()
	}
}

func (h *AuditHandler) parseFilter(c *gin.Context) (services.AuditFilter, bool) {
	filter := services.AuditFilter{Search: c.Query("search")}

	if cat := c.Query("category"); cat != "" && cat != "all" {
		category := models.Category(cat)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
			return filter, false
		}
		filter.Category = category
	}

	var ok bool
	if filter.From, ok = parseTimeParam(c, "from", false); !ok {
		return filter, false
	}
	if filter.To, ok = parseTimeParam(c, "to", true); !ok {
		return filter, false
	}

	return filter, true
}

// parseTimeParam accepts RFC3339 or a bare date. A bare date on the "to"
// end is widened to the end of that day so the range stays inclusive.
func parseTimeParam(c *gin.Context, name string, endOfDay bool) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, true
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s timestamp", name)})
	return time.Time{}, false
}
