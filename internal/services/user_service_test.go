package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahcon/mealtrack/internal/models"
)

func newUserFixture(t *testing.T) (*UserService, *AuditService) {
	t.Helper()
	db := openTestDB(t)
	audit := NewAuditService(db)
	return NewUserService(db, audit), audit
}

func TestUserService_CreateDefaultsAndAudit(t *testing.T) {
	users, audit := newUserFixture(t)

	user, err := users.Create(testActor(), UserForm{
		Name:  "FCT Representative",
		Email: "FCT@nahcon.gov.ng",
		Role:  models.RoleStateRep,
		State: "FCT",
	}, "password123")
	require.NoError(t, err)

	assert.Equal(t, "fct@nahcon.gov.ng", user.Email)
	assert.Equal(t, "FCT", user.State)
	assert.Equal(t, models.AffiliationAll, user.Kitchen)
	assert.Equal(t, models.StatusActive, user.Status)
	assert.NotEmpty(t, user.UUID)
	assert.True(t, user.CheckPassword("password123"))

	entries, err := audit.List(AuditFilter{Category: models.CategoryUserManagement})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "User Creation", entries[0].Action)
	assert.Equal(t, "Created new user: fct@nahcon.gov.ng", entries[0].Details)
}

func TestUserService_UpdateMergesNonEmptyFields(t *testing.T) {
	users, audit := newUserFixture(t)

	user, err := users.Create(testActor(), UserForm{
		Name:  "Staff Member",
		Email: "staff@nahcon.gov.ng",
		Role:  models.RoleNAHCONStaff,
	}, "password123")
	require.NoError(t, err)

	found, err := users.Update(testActor(), user.ID, UserForm{Name: "Renamed Staff", Status: models.StatusInactive})
	require.NoError(t, err)
	assert.True(t, found)

	reloaded, err := users.Get(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Staff", reloaded.Name)
	assert.Equal(t, models.StatusInactive, reloaded.Status)
	// Untouched fields survive the merge.
	assert.Equal(t, "staff@nahcon.gov.ng", reloaded.Email)
	assert.Equal(t, models.RoleNAHCONStaff, reloaded.Role)

	entries, err := audit.List(AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "User Update", entries[0].Action)
}

func TestUserService_UpdateMissIsObservableNoOp(t *testing.T) {
	users, audit := newUserFixture(t)

	found, err := users.Update(testActor(), 9999, UserForm{Name: "Ghost"})
	require.NoError(t, err)
	assert.False(t, found)

	n, err := audit.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserService_DeleteAndMiss(t *testing.T) {
	users, audit := newUserFixture(t)

	user, err := users.Create(testActor(), UserForm{
		Name:  "Doomed",
		Email: "doomed@nahcon.gov.ng",
		Role:  models.RoleKitchenRep,
	}, "password123")
	require.NoError(t, err)

	found, err := users.Delete(testActor(), user.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, err = users.Get(user.ID)
	assert.Error(t, err)

	// Historical entries keep the deleted user's snapshot.
	entries, err := audit.List(AuditFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "User Deletion", entries[0].Action)
	assert.Equal(t, "Deleted user: doomed@nahcon.gov.ng", entries[0].Details)

	found, err = users.Delete(testActor(), user.ID)
	require.NoError(t, err)
	assert.False(t, found)

	n, err := audit.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUserService_EmailTaken(t *testing.T) {
	users, _ := newUserFixture(t)

	user, err := users.Create(testActor(), UserForm{
		Name:  "Admin",
		Email: "admin@nahcon.gov.ng",
		Role:  models.RoleAdministrator,
	}, "password123")
	require.NoError(t, err)

	taken, err := users.EmailTaken("ADMIN@nahcon.gov.ng", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// The owner is excluded when updating their own record.
	taken, err = users.EmailTaken("admin@nahcon.gov.ng", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = users.EmailTaken("free@nahcon.gov.ng", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}
