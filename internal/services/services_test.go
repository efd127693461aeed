package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/certpdf"
	"github.com/j-bridge/volunteerhub.com/internal/logger"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/services/mocks"
	"github.com/j-bridge/volunteerhub.com/internal/testutil"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
)

type testEnv struct {
	db       *gorm.DB
	store    *repository.Store
	tokens   *tokens.Manager
	notifier *mocks.MockNotifications
	certDir  string

	auth          *services.AuthService
	users         *services.UserService
	organizations *services.OrganizationService
	opportunities *services.OpportunityService
	applications  *services.ApplicationService
	certificates  *services.CertificateService
	videos        *services.VideoService
	admin         *services.AdminService
	contact       *services.ContactService
}

func newTestTokens() *tokens.Manager {
	return tokens.NewManager(tokens.Options{
		Secret:      "test-secret",
		Issuer:      "volunteerhub-test",
		AccessTTL:   30 * time.Minute,
		RefreshTTL:  24 * time.Hour,
		DownloadTTL: 72 * time.Hour,
		ResetTTL:    time.Hour,
	})
}

// setupTestEnv wires every service against an in-memory database. The
// notifier accepts any message unless a test replaces it.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifications(ctrl)
	notifier.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true).AnyTimes()
	return setupTestEnvWith(t, notifier, certpdf.NewRenderer())
}

func setupTestEnvWith(t *testing.T, notifier *mocks.MockNotifications, renderer services.PDFRenderer) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	tm := newTestTokens()
	log := logger.Discard()
	certDir := t.TempDir()

	return &testEnv{
		db:       db,
		store:    store,
		tokens:   tm,
		notifier: notifier,
		certDir:  certDir,

		auth: services.NewAuthService(store, tm, notifier, services.AuthOptions{
			Logger:     log,
			ResetURL:   "https://app.example.com/reset-password",
			BcryptCost: bcrypt.MinCost,
		}),
		users:         services.NewUserService(store, log),
		organizations: services.NewOrganizationService(store, log),
		opportunities: services.NewOpportunityService(store, log),
		applications:  services.NewApplicationService(store, notifier, nil, log),
		certificates: services.NewCertificateService(store, tm, renderer, notifier, services.CertificateOptions{
			OutputDir:     certDir,
			PublicBaseURL: "https://api.example.com/",
			Logger:        log,
		}),
		videos:  services.NewVideoService(store, log),
		admin:   services.NewAdminService(store),
		contact: services.NewContactService(notifier, "inbox@example.com", log),
	}
}

// orgFixture is an organization with one user per relation to it.
type orgFixture struct {
	org       *models.Organization
	owner     *models.User
	orgAdmin  *models.User
	member    *models.User
	outsider  *models.User
	siteAdmin *models.User
	volunteer *models.User
}

func (e *testEnv) seedOrganization(t *testing.T) orgFixture {
	t.Helper()

	f := orgFixture{
		owner:     testutil.CreateUser(t, e.db, "owner@example.com", models.RoleOrganization),
		orgAdmin:  testutil.CreateUser(t, e.db, "orgadmin@example.com", models.RoleOrganization),
		member:    testutil.CreateUser(t, e.db, "member@example.com", models.RoleVolunteer),
		outsider:  testutil.CreateUser(t, e.db, "outsider@example.com", models.RoleOrganization),
		siteAdmin: testutil.CreateUser(t, e.db, "admin@example.com", models.RoleAdmin),
		volunteer: testutil.CreateUser(t, e.db, "volunteer@example.com", models.RoleVolunteer),
	}
	f.org = testutil.CreateOrganization(t, e.db, "Food Bank", f.owner)
	testutil.AddMember(t, e.db, f.org, f.orgAdmin, models.MemberRoleAdmin)
	testutil.AddMember(t, e.db, f.org, f.member, models.MemberRoleMember)
	return f
}

func TestCheckPassword(t *testing.T) {
	cases := map[string]bool{
		"short1":        false,
		"allletters":    false,
		"1234567890":    false,
		"Passw0rd1":     true,
		"longer pass 9": true,
	}
	for password, ok := range cases {
		err := services.CheckPassword(password)
		if ok {
			assert.NoError(t, err, password)
		} else {
			assert.ErrorIs(t, err, services.ErrValidation, password)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "someone@example.com", services.NormalizeEmail("  SomeOne@Example.COM "))
}

func TestAuthorizationPredicates(t *testing.T) {
	owner := &models.User{ID: 1, Role: models.RoleOrganization}
	admin := &models.User{ID: 2, Role: models.RoleAdmin}
	other := &models.User{ID: 3, Role: models.RoleVolunteer}
	org := &models.Organization{ID: 9, OwnerID: &owner.ID}

	assert.True(t, services.IsSiteAdmin(admin))
	assert.False(t, services.IsSiteAdmin(owner))
	assert.False(t, services.IsSiteAdmin(nil))

	assert.True(t, services.IsOrganizationOwner(owner, org))
	assert.False(t, services.IsOrganizationOwner(other, org))
	assert.False(t, services.IsOrganizationOwner(owner, &models.Organization{ID: 10}))

	member := &models.OrganizationMember{OrganizationID: 9, UserID: 3, Role: models.MemberRoleMember}
	assert.True(t, services.IsOrganizationMember(member))
	assert.False(t, services.IsOrganizationMember(member, models.MemberRoleOwner, models.MemberRoleAdmin))
	assert.False(t, services.IsOrganizationMember(nil))
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, services.ErrWeakPassword, services.ErrValidation)
	assert.ErrorIs(t, services.ErrEmailTaken, services.ErrConflict)
	assert.ErrorIs(t, services.ErrNotOrganizationAdmin, services.ErrForbidden)
	assert.ErrorIs(t, services.ErrApplicationFinal, services.ErrInvalidTransition)
	assert.ErrorIs(t, services.ErrMissingOrganizationID, services.ErrValidation)
	assert.NotErrorIs(t, services.ErrOpportunityNotFound, services.ErrForbidden)
	assert.Equal(t, "opportunity not found", services.ErrOpportunityNotFound.Error())
}
