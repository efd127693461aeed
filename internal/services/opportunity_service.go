package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// OpportunityService provides business logic for the opportunity catalog.
type OpportunityService struct {
	store *repository.Store
	log   logrus.FieldLogger
}

// NewOpportunityService creates a new OpportunityService.
func NewOpportunityService(store *repository.Store, log logrus.FieldLogger) *OpportunityService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OpportunityService{store: store, log: log.WithField("service", "opportunities")}
}

// OpportunityListFilter narrows the catalog. ActiveOnly defaults to true when nil.
type OpportunityListFilter struct {
	Location       string
	OrganizationID *uint64
	ActiveOnly     *bool
}

// List returns a restartable sequence of opportunities, newest first.
func (s *OpportunityService) List(ctx context.Context, filter OpportunityListFilter) iter.Seq2[models.Opportunity, error] {
	activeOnly := true
	if filter.ActiveOnly != nil {
		activeOnly = *filter.ActiveOnly
	}
	return s.store.Opportunities.Iterate(ctx, repository.OpportunityFilter{
		Location:       strings.TrimSpace(filter.Location),
		OrganizationID: filter.OrganizationID,
		ActiveOnly:     activeOnly,
	})
}

// Get returns an opportunity by ID.
func (s *OpportunityService) Get(ctx context.Context, id uint64) (*models.Opportunity, error) {
	return findOpportunity(ctx, s.store.Opportunities, id)
}

// CreateOpportunityInput represents parameters to create a new opportunity.
type CreateOpportunityInput struct {
	Title          string
	Description    string
	Location       string
	StartDate      *time.Time
	EndDate        *time.Time
	OrganizationID *uint64
	IsActive       *bool
}

// Create adds an opportunity to an organization the actor administers. When no
// organization is given, the actor's owned organization is used.
func (s *OpportunityService) Create(ctx context.Context, actorID uint64, input CreateOpportunityInput) (*models.Opportunity, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	var opp *models.Opportunity
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}

		orgID, err := resolveOrganizationID(ctx, tx.Organizations, actor, input.OrganizationID)
		if err != nil {
			return err
		}

		opp = &models.Opportunity{
			Title:          title,
			Description:    strings.TrimSpace(input.Description),
			Location:       strings.TrimSpace(input.Location),
			StartDate:      input.StartDate,
			EndDate:        input.EndDate,
			OrganizationID: orgID,
			IsActive:       input.IsActive == nil || *input.IsActive,
		}
		if !opp.ValidSchedule() {
			return ErrInvalidSchedule
		}

		org, err := NewAuthorizer(tx.Organizations).RequireOrgAdmin(ctx, actor, orgID)
		if err != nil {
			return err
		}

		if err := tx.Opportunities.Create(ctx, opp); err != nil {
			return fmt.Errorf("failed to create opportunity: %w", err)
		}
		opp.Organization = *org
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"opportunity_id": opp.ID, "organization_id": opp.OrganizationID}).Info("Opportunity created")
	return opp, nil
}

// resolveOrganizationID falls back to the organization the actor owns.
// Site admins must always name the organization.
func resolveOrganizationID(ctx context.Context, orgs repository.OrganizationRepository, actor *models.User, requested *uint64) (uint64, error) {
	if requested != nil && *requested != 0 {
		return *requested, nil
	}
	if IsSiteAdmin(actor) {
		return 0, ErrMissingOrganizationID
	}
	owned, err := orgs.FindByOwnerID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrMissingOrganizationID
		}
		return 0, fmt.Errorf("failed to resolve owned organization: %w", err)
	}
	return owned.ID, nil
}

// UpdateOpportunityInput holds optional fields; nil leaves a field unchanged.
// The Clear flags remove a date.
type UpdateOpportunityInput struct {
	Title          *string
	Description    *string
	Location       *string
	StartDate      *time.Time
	EndDate        *time.Time
	ClearStartDate bool
	ClearEndDate   bool
	OrganizationID *uint64
	IsActive       *bool
}

// Update applies a partial update. Moving the opportunity requires admin rights
// on both organizations.
func (s *OpportunityService) Update(ctx context.Context, actorID, id uint64, input UpdateOpportunityInput) (*models.Opportunity, error) {
	var opp *models.Opportunity
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		opp, err = findOpportunity(ctx, tx.Opportunities, id)
		if err != nil {
			return err
		}

		authz := NewAuthorizer(tx.Organizations)
		if _, err := authz.RequireOrgAdmin(ctx, actor, opp.OrganizationID); err != nil {
			return err
		}

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return ErrTitleRequired
			}
			opp.Title = title
		}
		if input.Description != nil {
			opp.Description = strings.TrimSpace(*input.Description)
		}
		if input.Location != nil {
			opp.Location = strings.TrimSpace(*input.Location)
		}
		switch {
		case input.ClearStartDate:
			opp.StartDate = nil
		case input.StartDate != nil:
			opp.StartDate = input.StartDate
		}
		switch {
		case input.ClearEndDate:
			opp.EndDate = nil
		case input.EndDate != nil:
			opp.EndDate = input.EndDate
		}
		if input.IsActive != nil {
			opp.IsActive = *input.IsActive
		}
		if !opp.ValidSchedule() {
			return ErrInvalidSchedule
		}

		if input.OrganizationID != nil && *input.OrganizationID != opp.OrganizationID {
			dest, err := authz.RequireOrgAdmin(ctx, actor, *input.OrganizationID)
			if err != nil {
				return err
			}
			opp.OrganizationID = dest.ID
			opp.Organization = *dest
		}

		if err := tx.Opportunities.Update(ctx, opp); err != nil {
			return fmt.Errorf("failed to update opportunity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opp, nil
}

// Delete soft deletes an opportunity. Its applications are kept.
func (s *OpportunityService) Delete(ctx context.Context, actorID, id uint64) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		opp, err := findOpportunity(ctx, tx.Opportunities, id)
		if err != nil {
			return err
		}
		if _, err := NewAuthorizer(tx.Organizations).RequireOrgAdmin(ctx, actor, opp.OrganizationID); err != nil {
			return err
		}
		if err := tx.Opportunities.Delete(ctx, opp.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOpportunityNotFound
			}
			return fmt.Errorf("failed to delete opportunity: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithField("opportunity_id", id).Info("Opportunity deleted")
	return nil
}
