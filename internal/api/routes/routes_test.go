package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/config"
	"github.com/nahcon/mealtrack/internal/models"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	r := gin.New()
	require.NoError(t, Register(r, db, config.Config{JWTSecret: "test-secret"}))
	return r, db
}

func seedAndLogin(t *testing.T, r *gin.Engine, db *gorm.DB, email, role, state, kitchen string) string {
	t.Helper()
	user := models.User{
		Name:    "Test User",
		Email:   email,
		Role:    role,
		State:   state,
		Kitchen: kitchen,
		Status:  models.StatusActive,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)

	w := doJSON(t, r, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_Health(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, "GET", "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_ProtectedRequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)

	for _, path := range []string{"/api/v1/users", "/api/v1/meals", "/api/v1/reports", "/api/v1/audit"} {
		w := doJSON(t, r, "GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestRoutes_AuditIsAdminOnly(t *testing.T) {
	r, db := setupRouter(t)
	staff := seedAndLogin(t, r, db, "staff@nahcon.gov.ng", models.RoleNAHCONStaff, "All", "All")
	admin := seedAndLogin(t, r, db, "admin@nahcon.gov.ng", models.RoleAdministrator, "All", "All")

	w := doJSON(t, r, "GET", "/api/v1/audit", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/audit", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/audit/export", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutes_MealRequestWorkflow(t *testing.T) {
	r, db := setupRouter(t)
	rep := seedAndLogin(t, r, db, "fct@nahcon.gov.ng", models.RoleStateRep, "FCT", "Ava Kitchen")
	staff := seedAndLogin(t, r, db, "staff@nahcon.gov.ng", models.RoleNAHCONStaff, "All", "All")
	kitchen := seedAndLogin(t, r, db, "ava@kitchen.com", models.RoleKitchenRep, "All", "Ava Kitchen")

	// Only state representatives may open requests.
	payload := gin.H{
		"meal_type":      models.MealLunch,
		"menu":           "Rice, chicken, vegetables",
		"delivery_at":    time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"total_pilgrims": 150,
	}
	w := doJSON(t, r, "POST", "/api/v1/meal-requests", staff, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/meal-requests", rep, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.MealRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "FCT", created.State)
	assert.Equal(t, "Ava Kitchen", created.Kitchen)
	assert.Equal(t, models.RequestPending, created.Status)

	// The kitchen cannot deliver before staff approval.
	deliverPath := fmt.Sprintf("/api/v1/kitchen-requests/%d/deliver", created.ID)
	w = doJSON(t, r, "POST", deliverPath, kitchen, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reviewing is for staff and administrators, not the requester.
	statusPath := fmt.Sprintf("/api/v1/meal-requests/%d/status", created.ID)
	w = doJSON(t, r, "POST", statusPath, rep, gin.H{"status": models.RequestApproved})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "POST", statusPath, staff, gin.H{"status": models.RequestApproved})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", deliverPath, kitchen, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The kitchen sees its queue through the kitchen-requests surface.
	w = doJSON(t, r, "GET", "/api/v1/kitchen-requests", kitchen, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var queue []models.MealRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, models.RequestDelivered, queue[0].Status)

	// State representatives cannot read the kitchen queue.
	w = doJSON(t, r, "GET", "/api/v1/kitchen-requests", rep, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoutes_AssessmentSubmissionAndReview(t *testing.T) {
	r, db := setupRouter(t)
	staff := seedAndLogin(t, r, db, "staff@nahcon.gov.ng", models.RoleNAHCONStaff, "All", "All")
	rep := seedAndLogin(t, r, db, "fct@nahcon.gov.ng", models.RoleStateRep, "FCT", "All")
	kitchen := seedAndLogin(t, r, db, "ava@kitchen.com", models.RoleKitchenRep, "All", "Ava Kitchen")

	payload := gin.H{
		"state":         "FCT",
		"accommodation": "Ibn Umar",
		"caterer":       "Ava Kitchen",
		"meal_type":     models.MealDinner,
		"delivered":     150,
		"served":        145,
	}

	// Submission is for administrators and staff only.
	w := doJSON(t, r, "POST", "/api/v1/meals", rep, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/meals", staff, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.MealAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.ReviewPending, created.StateReview)

	review := gin.H{
		"food_quality":  models.VerdictAdequate,
		"food_quantity": models.VerdictAdequate,
		"special_diet":  models.VerdictAdequate,
		"utensils":      models.VerdictAdequate,
		"decision":      models.DecisionApprove,
	}
	reviewPath := fmt.Sprintf("/api/v1/meals/%d/review", created.ID)

	// Staff cannot review, the representative roles can.
	w = doJSON(t, r, "POST", reviewPath, staff, review)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "POST", reviewPath, rep, review)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "POST", reviewPath, kitchen, review)
	require.Equal(t, http.StatusOK, w.Code)

	// Each representative moved their own track.
	w = doJSON(t, r, "GET", fmt.Sprintf("/api/v1/meals/%d", created.ID), staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reloaded models.MealAssessment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reloaded))
	assert.Equal(t, models.ReviewApproved, reloaded.StateReview)
	assert.Equal(t, models.ReviewApproved, reloaded.KitchenReview)
	assert.Len(t, reloaded.Reviews, 2)
}

func TestRoutes_ReportsScopedByRole(t *testing.T) {
	r, db := setupRouter(t)
	admin := seedAndLogin(t, r, db, "admin@nahcon.gov.ng", models.RoleAdministrator, "All", "All")

	w := doJSON(t, r, "GET", "/api/v1/reports", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Contains(t, summary, "requests")
	assert.Contains(t, summary, "assessments")
}

func TestRoutes_EveryMutationLandsInAudit(t *testing.T) {
	r, db := setupRouter(t)
	admin := seedAndLogin(t, r, db, "admin@nahcon.gov.ng", models.RoleAdministrator, "All", "All")

	w := doJSON(t, r, "POST", "/api/v1/users", admin, gin.H{
		"name":     "New Staff",
		"email":    "new@nahcon.gov.ng",
		"password": "password123",
		"role":     models.RoleNAHCONStaff,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "POST", "/api/v1/roles", admin, gin.H{
		"name":       "Auditor",
		"privileges": []string{"View reports"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, "GET", "/api/v1/audit", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.AuditEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	// Login, user creation, role creation. Newest first.
	require.Len(t, entries, 3)
	assert.Equal(t, "Role Creation", entries[0].Action)
	assert.Equal(t, "User Creation", entries[1].Action)
	assert.Equal(t, "Login", entries[2].Action)
	for _, e := range entries {
		assert.Equal(t, "admin@nahcon.gov.ng", e.ActorEmail)
	}
}
