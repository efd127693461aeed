package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// IsSiteAdmin reports whether the user holds the global admin role.
func IsSiteAdmin(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

// IsOrganizationOwner reports whether the user is the owner recorded on the organization.
func IsOrganizationOwner(user *models.User, org *models.Organization) bool {
	return user != nil && org != nil && org.OwnerID != nil && *org.OwnerID == user.ID
}

// IsOrganizationMember reports whether a membership exists and, when roles are
// given, carries one of them.
func IsOrganizationMember(member *models.OrganizationMember, roles ...models.MemberRole) bool {
	if member == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	return slices.Contains(roles, member.Role)
}

// Authorizer evaluates organization-scoped permissions against storage.
type Authorizer struct {
	orgs repository.OrganizationRepository
}

func NewAuthorizer(orgs repository.OrganizationRepository) *Authorizer {
	return &Authorizer{orgs: orgs}
}

// Membership returns the user's membership in org, or nil.
func (a *Authorizer) Membership(ctx context.Context, user *models.User, orgID uint64) (*models.OrganizationMember, error) {
	member, err := a.orgs.FindMember(ctx, orgID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	return member, nil
}

// IsOrgAdminOrSiteAdmin checks site admin, then ownership, then an owner or admin membership.
func (a *Authorizer) IsOrgAdminOrSiteAdmin(ctx context.Context, user *models.User, org *models.Organization) (bool, error) {
	if IsSiteAdmin(user) {
		return true, nil
	}
	if IsOrganizationOwner(user, org) {
		return true, nil
	}
	member, err := a.Membership(ctx, user, org.ID)
	if err != nil {
		return false, err
	}
	return IsOrganizationMember(member, models.MemberRoleOwner, models.MemberRoleAdmin), nil
}

// RequireOrgAdmin loads the organization and requires IsOrgAdminOrSiteAdmin.
func (a *Authorizer) RequireOrgAdmin(ctx context.Context, user *models.User, orgID uint64) (*models.Organization, error) {
	if orgID == 0 {
		return nil, ErrMissingOrganizationID
	}
	org, err := findOrganization(ctx, a.orgs, orgID)
	if err != nil {
		return nil, err
	}
	ok, err := a.IsOrgAdminOrSiteAdmin(ctx, user, org)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotOrganizationAdmin
	}
	return org, nil
}

// RequireOwnerOrSiteAdmin loads the organization and requires ownership or site admin.
func (a *Authorizer) RequireOwnerOrSiteAdmin(ctx context.Context, user *models.User, orgID uint64) (*models.Organization, error) {
	org, err := findOrganization(ctx, a.orgs, orgID)
	if err != nil {
		return nil, err
	}
	if !IsSiteAdmin(user) && !IsOrganizationOwner(user, org) {
		return nil, ErrOwnerRequired
	}
	return org, nil
}
