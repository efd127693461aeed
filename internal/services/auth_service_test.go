package services_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/j-bridge/volunteerhub.com/internal/certpdf"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/notify"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/services/mocks"
	"github.com/j-bridge/volunteerhub.com/internal/testutil"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, services.RegisterInput{
		Email:    "  New.Person@Example.COM ",
		Password: "Passw0rd1",
		Name:     "New Person",
	})
	require.NoError(t, err)
	assert.Equal(t, "new.person@example.com", result.User.Email)
	assert.Equal(t, models.RoleVolunteer, result.User.Role)
	assert.NotEmpty(t, result.Tokens.AccessToken)
	assert.NotEmpty(t, result.Tokens.RefreshToken)

	_, err = env.auth.Register(ctx, services.RegisterInput{
		Email:    "new.person@example.com",
		Password: "Passw0rd1",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestAuthService_RegisterRejectsWeakPasswordBeforePersisting(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.auth.Register(context.Background(), services.RegisterInput{
		Email:    "weak@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, services.ErrWeakPassword)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAuthService_RegisterRejectsAdminRole(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.auth.Register(context.Background(), services.RegisterInput{
		Email:    "sneaky@example.com",
		Password: "Passw0rd1",
		Role:     "admin",
	})
	assert.ErrorIs(t, err, services.ErrRoleNotAllowed)
}

func TestAuthService_RegisterOrganizationCreatesOwnedOrganization(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, services.RegisterInput{
		Email:            "lead@example.com",
		Password:         "Passw0rd1",
		Role:             "organization",
		OrganizationName: "  River Cleanup ",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Organization)
	assert.Equal(t, "River Cleanup", result.Organization.Name)
	require.NotNil(t, result.Organization.OwnerID)
	assert.Equal(t, result.User.ID, *result.Organization.OwnerID)

	member, err := env.store.Organizations.FindMember(ctx, result.Organization.ID, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleOwner, member.Role)
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	testutil.CreateUser(t, env.db, "known@example.com", models.RoleVolunteer)
	inactive := testutil.CreateUser(t, env.db, "gone@example.com", models.RoleVolunteer)
	inactive.IsActive = false
	require.NoError(t, env.store.Users.Update(ctx, inactive))

	_, unknownErr := env.auth.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "Passw0rd1"})
	_, wrongErr := env.auth.Login(ctx, services.LoginInput{Email: "known@example.com", Password: "Wrong1234"})
	_, inactiveErr := env.auth.Login(ctx, services.LoginInput{Email: "gone@example.com", Password: "Passw0rd1"})

	for _, err := range []error{unknownErr, wrongErr, inactiveErr} {
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	}

	result, err := env.auth.Login(ctx, services.LoginInput{Email: "KNOWN@example.com", Password: "Passw0rd1"})
	require.NoError(t, err)
	assert.Equal(t, "known@example.com", result.User.Email)
}

func TestAuthService_Refresh(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	result, err := env.auth.Register(ctx, services.RegisterInput{Email: "r@example.com", Password: "Passw0rd1"})
	require.NoError(t, err)

	access, err := env.auth.Refresh(ctx, result.Tokens.RefreshToken)
	require.NoError(t, err)
	claims, err := env.tokens.Parse(access, tokens.PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVolunteer, claims.Role)

	_, err = env.auth.Refresh(ctx, result.Tokens.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	result.User.IsActive = false
	require.NoError(t, env.store.Users.Update(ctx, result.User))
	_, err = env.auth.Refresh(ctx, result.Tokens.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestAuthService_PasswordResetFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifications(ctrl)
	env := setupTestEnvWith(t, notifier, certpdf.NewRenderer())
	ctx := context.Background()

	testutil.CreateUser(t, env.db, "forgetful@example.com", models.RoleVolunteer)

	var resetURL string
	notifier.EXPECT().
		Enqueue(gomock.Any(), []string{"forgetful@example.com"}, notify.TemplatePasswordReset, gomock.Any()).
		DoAndReturn(func(_ string, _ []string, _ string, data any) bool {
			resetURL = data.(notify.PasswordResetData).ResetURL
			return true
		})

	env.auth.RequestPasswordReset(ctx, "Forgetful@example.com")
	// Unknown addresses are ignored without sending anything.
	env.auth.RequestPasswordReset(ctx, "stranger@example.com")

	require.True(t, strings.HasPrefix(resetURL, "https://app.example.com/reset-password?token="))
	parsed, err := url.Parse(resetURL)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	assert.ErrorIs(t, env.auth.ResetPassword(ctx, token, "weak"), services.ErrWeakPassword)
	require.NoError(t, env.auth.ResetPassword(ctx, token, "N3wPassword"))

	_, err = env.auth.Login(ctx, services.LoginInput{Email: "forgetful@example.com", Password: "N3wPassword"})
	assert.NoError(t, err)
	_, err = env.auth.Login(ctx, services.LoginInput{Email: "forgetful@example.com", Password: "Passw0rd1"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	assert.ErrorIs(t, env.auth.ResetPassword(ctx, "garbage", "N3wPassword"), services.ErrInvalidToken)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "p@example.com", models.RoleVolunteer)

	name := "  Pat  "
	updated, err := env.auth.UpdateProfile(ctx, user.ID, &name)
	require.NoError(t, err)
	assert.Equal(t, "Pat", updated.Name)

	long := strings.Repeat("x", 256)
	_, err = env.auth.UpdateProfile(ctx, user.ID, &long)
	assert.ErrorIs(t, err, services.ErrValidation)
}
