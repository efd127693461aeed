package services_test

import (
	"context"
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
)

func TestVideoService_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "v@example.com", models.RoleVolunteer)
	missing := uint64(9999)

	_, err := env.videos.Create(ctx, user.ID, services.CreateVideoInput{Title: "ab", VideoURL: "https://videos.example.com/1"})
	assert.ErrorIs(t, err, services.ErrInvalidVideoTitle)

	_, err = env.videos.Create(ctx, user.ID, services.CreateVideoInput{Title: "My day", VideoURL: "ftp://videos.example.com/1"})
	assert.ErrorIs(t, err, services.ErrInvalidVideoURL)

	_, err = env.videos.Create(ctx, user.ID, services.CreateVideoInput{Title: "My day", VideoURL: "https://videos.example.com/1", OpportunityID: &missing})
	assert.ErrorIs(t, err, services.ErrOpportunityNotFound)

	video, err := env.videos.Create(ctx, user.ID, services.CreateVideoInput{Title: " My day ", VideoURL: "https://videos.example.com/1"})
	require.NoError(t, err)
	assert.Equal(t, "My day", video.Title)
	assert.Equal(t, models.VideoSubmitted, video.Status)
}

func TestVideoService_ReviewAndVisibility(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)
	user := testutil.CreateUser(t, env.db, "v@example.com", models.RoleVolunteer)

	first, err := env.videos.Create(ctx, user.ID, services.CreateVideoInput{Title: "First clip", VideoURL: "https://videos.example.com/1"})
	require.NoError(t, err)
	_, err = env.videos.Create(ctx, user.ID, services.CreateVideoInput{Title: "Second clip", VideoURL: "https://videos.example.com/2"})
	require.NoError(t, err)

	public, err := env.videos.List(ctx, 0, "submitted")
	require.NoError(t, err)
	assert.Empty(t, public)

	_, err = env.videos.UpdateStatus(ctx, user.ID, first.ID, "approved")
	assert.ErrorIs(t, err, services.ErrAdminRequired)
	_, err = env.videos.UpdateStatus(ctx, admin.ID, first.ID, "published")
	assert.ErrorIs(t, err, services.ErrInvalidVideoStatus)
	_, err = env.videos.UpdateStatus(ctx, admin.ID, 9999, "approved")
	assert.ErrorIs(t, err, services.ErrVideoNotFound)

	approved, err := env.videos.UpdateStatus(ctx, admin.ID, first.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.VideoApproved, approved.Status)

	public, err = env.videos.List(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, first.ID, public[0].ID)

	pending, err := env.videos.List(ctx, admin.ID, "submitted")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	all, err := env.videos.List(ctx, admin.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = env.videos.List(ctx, admin.ID, "bogus")
	assert.ErrorIs(t, err, services.ErrInvalidVideoStatus)

	mine, err := env.videos.ListMine(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	asVolunteer, err := env.videos.List(ctx, user.ID, "submitted")
	require.NoError(t, err)
	assert.Len(t, asVolunteer, 1)
	assert.Equal(t, models.VideoApproved, asVolunteer[0].Status)

	// Visibility follows the stored role, not whatever the caller held earlier.
	admin.Role = models.RoleVolunteer
	require.NoError(t, env.store.Users.Update(ctx, admin))
	demoted, err := env.videos.List(ctx, admin.ID, "submitted")
	require.NoError(t, err)
	require.Len(t, demoted, 1)
	assert.Equal(t, first.ID, demoted[0].ID)
}

func TestAdminService_Summary(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	f := env.seedOrganization(t)
	opp := testutil.CreateOpportunity(t, env.db, f.org, "Count me", "")
	_, err := env.applications.Create(ctx, f.volunteer.ID, opp.ID)
	require.NoError(t, err)

	_, err = env.admin.Summary(ctx, f.owner.ID)
	assert.ErrorIs(t, err, services.ErrAdminRequired)

	summary, err := env.admin.Summary(ctx, f.siteAdmin.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 6, summary.Counts.Users)
	assert.EqualValues(t, 1, summary.Counts.UsersByRole[models.RoleAdmin])
	assert.EqualValues(t, 3, summary.Counts.UsersByRole[models.RoleOrganization])
	assert.EqualValues(t, 1, summary.Counts.Organizations)
	assert.EqualValues(t, 1, summary.Counts.Opportunities)
	assert.EqualValues(t, 1, summary.Counts.ActiveOpportunities)
	assert.EqualValues(t, 1, summary.Counts.Applications)
	assert.Len(t, summary.RecentUsers, 5)
	assert.Len(t, summary.RecentApplications, 1)
	assert.Empty(t, summary.RecentVideos)
}

func TestContactService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifications(ctrl)
	env := setupTestEnvWith(t, notifier, certpdf.NewRenderer())

	assert.ErrorIs(t, env.contact.Submit(services.ContactInput{Name: "Sam", Email: "bad", Message: "Hi"}), services.ErrInvalidContact)
	assert.ErrorIs(t, env.contact.Submit(services.ContactInput{Name: " ", Email: "sam@example.com", Message: "Hi"}), services.ErrInvalidContact)

	notifier.EXPECT().Enqueue(gomock.Any(), []string{"inbox@example.com"}, notify.TemplateContactInbox, gomock.Any()).
		DoAndReturn(func(_ string, _ []string, _ string, data any) bool {
			assert.Equal(t, "Hello there", data.(notify.ContactData).Message)
			return true
		})
	notifier.EXPECT().Enqueue(gomock.Any(), []string{"sam@example.com"}, notify.TemplateContactAck, gomock.Any()).Return(false)

	assert.NoError(t, env.contact.Submit(services.ContactInput{
		Name:    " Sam ",
		Email:   "Sam@Example.com",
		Message: "  Hello there ",
	}))
}
