package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/testutil"
	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

func TestUserService_ListRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)
	volunteer := testutil.CreateUser(t, env.db, "v@example.com", models.RoleVolunteer)

	_, _, err := env.users.ListUsers(ctx, volunteer.ID, utils.NewPaginationParams(1, 10))
	assert.ErrorIs(t, err, services.ErrForbidden)

	users, total, err := env.users.ListUsers(ctx, admin.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

func TestUserService_GetUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)
	a := testutil.CreateUser(t, env.db, "a@example.com", models.RoleVolunteer)
	b := testutil.CreateUser(t, env.db, "b@example.com", models.RoleVolunteer)

	self, err := env.users.GetUser(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, self.Email)

	_, err = env.users.GetUser(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	found, err := env.users.GetUser(ctx, admin.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)

	_, err = env.users.GetUser(ctx, admin.ID, 9999)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUserService_LastAdminIsProtected(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)

	_, err := env.users.ChangeRole(ctx, admin.ID, admin.ID, "volunteer")
	assert.ErrorIs(t, err, services.ErrLastAdmin)
	_, err = env.users.SetActive(ctx, admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, services.ErrLastAdmin)

	second := testutil.CreateUser(t, env.db, "second@example.com", models.RoleVolunteer)
	promoted, err := env.users.ChangeRole(ctx, admin.ID, second.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	demoted, err := env.users.ChangeRole(ctx, second.ID, admin.ID, "organization")
	require.NoError(t, err)
	assert.Equal(t, models.RoleOrganization, demoted.Role)

	_, err = env.users.SetActive(ctx, second.ID, second.ID, false)
	assert.ErrorIs(t, err, services.ErrLastAdmin)
}

func TestUserService_ChangeRoleValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)
	volunteer := testutil.CreateUser(t, env.db, "v@example.com", models.RoleVolunteer)

	_, err := env.users.ChangeRole(ctx, admin.ID, volunteer.ID, "superuser")
	assert.ErrorIs(t, err, services.ErrInvalidRole)

	_, err = env.users.ChangeRole(ctx, volunteer.ID, admin.ID, "volunteer")
	assert.ErrorIs(t, err, services.ErrAdminRequired)
}

func TestUserService_DeactivatedActorIsRejected(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)
	other := testutil.CreateUser(t, env.db, "admin2@example.com", models.RoleAdmin)

	_, err := env.users.SetActive(ctx, other.ID, admin.ID, false)
	require.NoError(t, err)

	_, _, err = env.users.ListUsers(ctx, admin.ID, utils.NewPaginationParams(1, 10))
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}
