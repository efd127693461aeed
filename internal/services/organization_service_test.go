package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/services"
	"github.com/j-bridge/volunteerhub.com/internal/testutil"
)

func TestOrganizationService_CreateMakesActorOwner(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	lead := testutil.CreateUser(t, env.db, "lead@example.com", models.RoleOrganization)

	org, err := env.organizations.CreateOrganization(ctx, lead.ID, services.CreateOrganizationInput{Name: " Shelter "})
	require.NoError(t, err)
	assert.Equal(t, "Shelter", org.Name)
	assert.Equal(t, "lead@example.com", org.ContactEmail)
	require.NotNil(t, org.OwnerID)
	assert.Equal(t, lead.ID, *org.OwnerID)

	member, err := env.store.Organizations.FindMember(ctx, org.ID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleOwner, member.Role)

	_, err = env.organizations.CreateOrganization(ctx, lead.ID, services.CreateOrganizationInput{Name: "Second"})
	assert.ErrorIs(t, err, services.ErrAlreadyOwnsOrganization)
}

func TestOrganizationService_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	volunteer := testutil.CreateUser(t, env.db, "v@example.com", models.RoleVolunteer)
	lead := testutil.CreateUser(t, env.db, "lead@example.com", models.RoleOrganization)
	other := testutil.CreateUser(t, env.db, "other@example.com", models.RoleOrganization)

	_, err := env.organizations.CreateOrganization(ctx, volunteer.ID, services.CreateOrganizationInput{Name: "Nope"})
	assert.ErrorIs(t, err, services.ErrOrganizationRoleRequired)

	_, err = env.organizations.CreateOrganization(ctx, lead.ID, services.CreateOrganizationInput{Name: "   "})
	assert.ErrorIs(t, err, services.ErrInvalidOrganizationName)

	_, err = env.organizations.CreateOrganization(ctx, lead.ID, services.CreateOrganizationInput{Name: "X", OwnerID: &other.ID})
	assert.ErrorIs(t, err, services.ErrOwnerAssignment)
}

func TestOrganizationService_SiteAdminAssignsOwner(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin@example.com", models.RoleAdmin)
	lead := testutil.CreateUser(t, env.db, "lead@example.com", models.RoleOrganization)

	org, err := env.organizations.CreateOrganization(ctx, admin.ID, services.CreateOrganizationInput{Name: "Assigned", OwnerID: &lead.ID})
	require.NoError(t, err)
	require.NotNil(t, org.OwnerID)
	assert.Equal(t, lead.ID, *org.OwnerID)

	members, err := env.organizations.ListMembers(ctx, lead.ID, org.ID)
	require.NoError(t, err)
	roles := map[uint64]models.MemberRole{}
	for _, m := range members {
		roles[m.UserID] = m.Role
	}
	assert.Equal(t, models.MemberRoleOwner, roles[lead.ID])
	assert.Equal(t, models.MemberRoleAdmin, roles[admin.ID])
}

func TestOrganizationService_MemberManagement(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	f := env.seedOrganization(t)

	newcomer := testutil.CreateUser(t, env.db, "new@example.com", models.RoleVolunteer)

	_, err := env.organizations.AddMember(ctx, f.orgAdmin.ID, f.org.ID, newcomer.ID, "member")
	assert.ErrorIs(t, err, services.ErrOwnerRequired)

	_, err = env.organizations.AddMember(ctx, f.owner.ID, f.org.ID, newcomer.ID, "owner")
	assert.ErrorIs(t, err, services.ErrInvalidMemberRole)

	member, err := env.organizations.AddMember(ctx, f.owner.ID, f.org.ID, newcomer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleMember, member.Role)

	_, err = env.organizations.AddMember(ctx, f.siteAdmin.ID, f.org.ID, newcomer.ID, "admin")
	assert.ErrorIs(t, err, services.ErrAlreadyMember)

	_, err = env.organizations.ListMembers(ctx, f.outsider.ID, f.org.ID)
	assert.ErrorIs(t, err, services.ErrNotOrganizationMember)

	members, err := env.organizations.ListMembers(ctx, f.member.ID, f.org.ID)
	require.NoError(t, err)
	assert.Len(t, members, 4)

	assert.ErrorIs(t, env.organizations.RemoveMember(ctx, f.owner.ID, f.org.ID, f.owner.ID), services.ErrCannotRemoveOwner)
	require.NoError(t, env.organizations.RemoveMember(ctx, f.owner.ID, f.org.ID, newcomer.ID))
	assert.ErrorIs(t, env.organizations.RemoveMember(ctx, f.owner.ID, f.org.ID, newcomer.ID), services.ErrNotAMember)

	memberships, err := env.organizations.ListOrganizationsForUser(ctx, f.member.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, f.org.ID, memberships[0].OrganizationID)
}

func TestOrganizationService_Update(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	f := env.seedOrganization(t)

	name := "Food Bank North"
	_, err := env.organizations.UpdateOrganization(ctx, f.orgAdmin.ID, f.org.ID, services.UpdateOrganizationInput{Name: &name})
	assert.ErrorIs(t, err, services.ErrForbidden)

	bad := "not-an-email"
	_, err = env.organizations.UpdateOrganization(ctx, f.owner.ID, f.org.ID, services.UpdateOrganizationInput{ContactEmail: &bad})
	assert.ErrorIs(t, err, services.ErrInvalidEmail)

	updated, err := env.organizations.UpdateOrganization(ctx, f.owner.ID, f.org.ID, services.UpdateOrganizationInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "owner@example.com", updated.ContactEmail)

	inactive := false
	_, err = env.organizations.UpdateOrganization(ctx, f.siteAdmin.ID, f.org.ID, services.UpdateOrganizationInput{IsActive: &inactive})
	require.NoError(t, err)

	orgs, err := env.organizations.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Empty(t, orgs)

	_, err = env.organizations.GetOrganization(ctx, 9999)
	assert.ErrorIs(t, err, services.ErrOrganizationNotFound)
}

func TestOrganizationService_DeactivateClosesOpportunities(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	f := env.seedOrganization(t)
	opp := testutil.CreateOpportunity(t, env.db, f.org, "Serve meals", "Kitchen")

	otherOwner := testutil.CreateUser(t, env.db, "library@example.com", models.RoleOrganization)
	otherOrg := testutil.CreateOrganization(t, env.db, "Library", otherOwner)
	kept := testutil.CreateOpportunity(t, env.db, otherOrg, "Reading hour", "Downtown")

	inactive := false
	_, err := env.organizations.UpdateOrganization(ctx, f.siteAdmin.ID, f.org.ID, services.UpdateOrganizationInput{IsActive: &inactive})
	require.NoError(t, err)

	var listed []uint64
	for o, err := range env.opportunities.List(ctx, services.OpportunityListFilter{}) {
		require.NoError(t, err)
		listed = append(listed, o.ID)
	}
	assert.Equal(t, []uint64{kept.ID}, listed)

	_, err = env.applications.Create(ctx, f.volunteer.ID, opp.ID)
	assert.ErrorIs(t, err, services.ErrOpportunityNotFound)

	// A posting reopened by hand still cannot take applications while its organization is inactive.
	require.NoError(t, env.db.Model(&models.Opportunity{}).Where("id = ?", opp.ID).Update("is_active", true).Error)
	_, err = env.applications.Create(ctx, f.volunteer.ID, opp.ID)
	assert.ErrorIs(t, err, services.ErrOpportunityNotFound)

	_, err = env.applications.Create(ctx, f.volunteer.ID, kept.ID)
	require.NoError(t, err)
}
