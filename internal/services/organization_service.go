package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// OrganizationService provides business logic for organizations and their members.
type OrganizationService struct {
	store *repository.Store
	log   logrus.FieldLogger
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(store *repository.Store, log logrus.FieldLogger) *OrganizationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrganizationService{store: store, log: log.WithField("service", "organizations")}
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name         string
	ContactEmail string
	Description  string
	// OwnerID may only name another user when the actor is a site admin.
	OwnerID *uint64
}

// CreateOrganization creates an organization together with its memberships.
// A non-admin creator becomes the owner. A site admin may name an owner and is
// recorded as an admin member.
func (s *OrganizationService) CreateOrganization(ctx context.Context, actorID uint64, input CreateOrganizationInput) (*models.Organization, error) {
	var org *models.Organization
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		if actor.Role != models.RoleOrganization && actor.Role != models.RoleAdmin {
			return ErrOrganizationRoleRequired
		}

		name := strings.TrimSpace(input.Name)
		if name == "" {
			return ErrInvalidOrganizationName
		}
		contact := NormalizeEmail(input.ContactEmail)
		if contact != "" && !validEmail(contact) {
			return ErrInvalidEmail
		}

		var owner *models.User
		switch {
		case IsSiteAdmin(actor) && input.OwnerID != nil:
			owner, err = tx.Users.FindByID(ctx, *input.OwnerID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return fmt.Errorf("failed to find owner: %w", err)
			}
			if !owner.IsActive {
				return ErrUserNotFound
			}
		case IsSiteAdmin(actor):
			// Unowned organization administered by the creating admin
		default:
			if input.OwnerID != nil && *input.OwnerID != actor.ID {
				return ErrOwnerAssignment
			}
			owner = actor
		}

		org = &models.Organization{
			Name:         name,
			ContactEmail: contact,
			Description:  strings.TrimSpace(input.Description),
			IsActive:     true,
		}
		if owner != nil {
			if _, err := tx.Organizations.FindByOwnerID(ctx, owner.ID); err == nil {
				return ErrAlreadyOwnsOrganization
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check owned organization: %w", err)
			}
			org.OwnerID = &owner.ID
			if org.ContactEmail == "" {
				org.ContactEmail = owner.Email
			}
		}

		if err := tx.Organizations.Create(ctx, org); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyOwnsOrganization
			}
			return fmt.Errorf("failed to create organization: %w", err)
		}

		now := time.Now()
		if owner != nil {
			if err := tx.Organizations.AddMember(ctx, &models.OrganizationMember{
				OrganizationID: org.ID,
				UserID:         owner.ID,
				Role:           models.MemberRoleOwner,
				JoinedAt:       now,
			}); err != nil {
				return fmt.Errorf("failed to add owner to organization: %w", err)
			}
		}
		if owner == nil || owner.ID != actor.ID {
			if err := tx.Organizations.AddMember(ctx, &models.OrganizationMember{
				OrganizationID: org.ID,
				UserID:         actor.ID,
				Role:           models.MemberRoleAdmin,
				JoinedAt:       now,
			}); err != nil {
				return fmt.Errorf("failed to add creator to organization: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"organization_id": org.ID, "actor_id": actorID}).Info("Organization created")
	return org, nil
}

// ListOrganizations returns active organizations newest first.
func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := s.store.Organizations.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// GetOrganization returns an organization by ID.
func (s *OrganizationService) GetOrganization(ctx context.Context, orgID uint64) (*models.Organization, error) {
	return findOrganization(ctx, s.store.Organizations, orgID)
}

// ListOrganizationsForUser returns the memberships of a user.
func (s *OrganizationService) ListOrganizationsForUser(ctx context.Context, userID uint64) ([]models.OrganizationMember, error) {
	memberships, err := s.store.Organizations.ListMembersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return memberships, nil
}

// UpdateOrganizationInput holds optional fields; nil leaves a field unchanged.
type UpdateOrganizationInput struct {
	Name         *string
	ContactEmail *string
	Description  *string
	IsActive     *bool
}

// UpdateOrganization applies a partial update. Only the owner or a site admin may update.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, actorID, orgID uint64, input UpdateOrganizationInput) (*models.Organization, error) {
	var org *models.Organization
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		org, err = NewAuthorizer(tx.Organizations).RequireOwnerOrSiteAdmin(ctx, actor, orgID)
		if err != nil {
			return err
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrInvalidOrganizationName
			}
			org.Name = name
		}
		if input.ContactEmail != nil {
			contact := NormalizeEmail(*input.ContactEmail)
			if contact != "" && !validEmail(contact) {
				return ErrInvalidEmail
			}
			org.ContactEmail = contact
		}
		if input.Description != nil {
			org.Description = strings.TrimSpace(*input.Description)
		}
		if input.IsActive != nil {
			org.IsActive = *input.IsActive
		}

		if err := tx.Organizations.Update(ctx, org); err != nil {
			return fmt.Errorf("failed to update organization: %w", err)
		}
		if !org.IsActive {
			// Postings of a deactivated organization are closed with it.
			if _, err := tx.Opportunities.DeactivateByOrganization(ctx, org.ID); err != nil {
				return fmt.Errorf("failed to deactivate opportunities: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListMembers returns the members of an organization to its members and site admins.
func (s *OrganizationService) ListMembers(ctx context.Context, actorID, orgID uint64) ([]models.OrganizationMember, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	org, err := findOrganization(ctx, s.store.Organizations, orgID)
	if err != nil {
		return nil, err
	}

	if !IsSiteAdmin(actor) && !IsOrganizationOwner(actor, org) {
		member, err := NewAuthorizer(s.store.Organizations).Membership(ctx, actor, org.ID)
		if err != nil {
			return nil, err
		}
		if !IsOrganizationMember(member) {
			return nil, ErrNotOrganizationMember
		}
	}

	members, err := s.store.Organizations.ListMembers(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}
	return members, nil
}

// AddMember adds a user to the organization with role member or admin.
func (s *OrganizationService) AddMember(ctx context.Context, actorID, orgID, targetID uint64, role string) (*models.OrganizationMember, error) {
	var member *models.OrganizationMember
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		org, err := NewAuthorizer(tx.Organizations).RequireOwnerOrSiteAdmin(ctx, actor, orgID)
		if err != nil {
			return err
		}
		if !org.IsActive {
			return ErrOrganizationNotFound
		}

		memberRole, err := models.ParseMemberRole(role)
		if err != nil || memberRole == models.MemberRoleOwner {
			return ErrInvalidMemberRole
		}

		target, err := tx.Users.FindByID(ctx, targetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		if !target.IsActive {
			return ErrUserNotFound
		}

		member = &models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         target.ID,
			Role:           memberRole,
			JoinedAt:       time.Now(),
		}
		if err := tx.Organizations.AddMember(ctx, member); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyMember
			}
			return fmt.Errorf("failed to add member to organization: %w", err)
		}
		member.User = *target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"organization_id": orgID, "user_id": targetID, "role": member.Role}).Info("Organization member added")
	return member, nil
}

// RemoveMember removes a user from the organization. The owner cannot be removed.
func (s *OrganizationService) RemoveMember(ctx context.Context, actorID, orgID, targetID uint64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		org, err := NewAuthorizer(tx.Organizations).RequireOwnerOrSiteAdmin(ctx, actor, orgID)
		if err != nil {
			return err
		}

		if _, err := tx.Users.FindByID(ctx, targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		if org.OwnerID != nil && *org.OwnerID == targetID {
			return ErrCannotRemoveOwner
		}

		if err := tx.Organizations.RemoveMember(ctx, org.ID, targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAMember
			}
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"organization_id": orgID, "user_id": targetID}).Info("Organization member removed")
	return nil
}
