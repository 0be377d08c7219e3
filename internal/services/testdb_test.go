package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/models"
)

// openTestDB creates a migrated SQLite in-memory DB unique per test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsnName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_journal_mode=WAL&_busy_timeout=5000", dsnName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.AuditEntry{},
		&models.MealRequest{},
		&models.MealAssessment{},
		&models.AssessmentReview{},
		&models.Accommodation{},
		&models.Setting{},
	))
	return db
}

func testActor() Actor {
	return Actor{ID: 1, Email: "admin@nahcon.gov.ng", Role: models.RoleAdministrator}
}

// mustCreateUser inserts a user with the given role and affiliations.
func mustCreateUser(t *testing.T, db *gorm.DB, email, role, state, kitchen string) *models.User {
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
	return &user
}
