package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/metrics"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/notify"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// ApplicationService drives the application lifecycle.
type ApplicationService struct {
	store    *repository.Store
	notifier Notifications
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(store *repository.Store, notifier Notifications, m *metrics.Metrics, log logrus.FieldLogger) *ApplicationService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ApplicationService{
		store:    store,
		notifier: notifier,
		metrics:  m,
		log:      log.WithField("service", "applications"),
	}
}

// Create submits an application for an active opportunity.
func (s *ApplicationService) Create(ctx context.Context, volunteerID, opportunityID uint64) (*models.Application, error) {
	var (
		app       *models.Application
		volunteer *models.User
		org       *models.Organization
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		volunteer, err = tx.Users.FindByID(ctx, volunteerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		if !volunteer.IsActive {
			return ErrUserNotFound
		}

		opp, err := findOpportunity(ctx, tx.Opportunities, opportunityID)
		if err != nil {
			return err
		}
		if !opp.IsActive {
			return ErrOpportunityNotFound
		}
		org, err = findOrganization(ctx, tx.Organizations, opp.OrganizationID)
		if err != nil {
			return err
		}
		if !org.IsActive {
			return ErrOpportunityNotFound
		}

		app = &models.Application{
			UserID:        volunteer.ID,
			OpportunityID: opp.ID,
			Status:        models.ApplicationSubmitted,
		}
		if err := tx.Applications.Create(ctx, app); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateApplication
			}
			return fmt.Errorf("failed to create application: %w", err)
		}
		app.Opportunity = *opp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ApplicationCreated()
	s.log.WithFields(logrus.Fields{"application_id": app.ID, "user_id": volunteerID, "opportunity_id": opportunityID}).Info("Application submitted")

	data := notify.ApplicationData{
		VolunteerName:    volunteer.DisplayName(),
		VolunteerEmail:   volunteer.Email,
		OpportunityTitle: app.Opportunity.Title,
		OrganizationName: org.Name,
		Status:           string(app.Status),
	}
	s.notifier.Enqueue("Application received: "+app.Opportunity.Title, []string{volunteer.Email}, notify.TemplateApplicationSubmitted, data)
	if org.ContactEmail != "" {
		s.notifier.Enqueue("New volunteer application: "+app.Opportunity.Title, []string{org.ContactEmail}, notify.TemplateApplicationReceived, data)
	}

	return app, nil
}

// Review accepts or rejects a submitted application.
func (s *ApplicationService) Review(ctx context.Context, actorID, applicationID uint64, decision string) (*models.Application, error) {
	d, err := models.ParseDecision(decision)
	if err != nil {
		return nil, ErrInvalidDecision
	}

	var (
		app       *models.Application
		volunteer *models.User
		org       *models.Organization
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		app, err = findApplication(ctx, tx.Applications, applicationID)
		if err != nil {
			return err
		}
		actor, err := loadActor(ctx, tx.Users, actorID)
		if err != nil {
			return err
		}
		org, err = NewAuthorizer(tx.Organizations).RequireOrgAdmin(ctx, actor, app.Opportunity.OrganizationID)
		if err != nil {
			return err
		}

		if err := transition(ctx, tx.Applications, app, d.Status()); err != nil {
			return err
		}

		volunteer, err = tx.Users.FindByID(ctx, app.UserID)
		if err != nil {
			return fmt.Errorf("failed to load applicant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ApplicationTransitioned(string(app.Status))
	s.log.WithFields(logrus.Fields{"application_id": app.ID, "status": app.Status, "actor_id": actorID}).Info("Application reviewed")

	s.notifier.Enqueue("Application update: "+app.Opportunity.Title, []string{volunteer.Email}, notify.TemplateApplicationDecision, notify.ApplicationData{
		VolunteerName:    volunteer.DisplayName(),
		VolunteerEmail:   volunteer.Email,
		OpportunityTitle: app.Opportunity.Title,
		OrganizationName: org.Name,
		Status:           string(app.Status),
	})

	return app, nil
}

// Withdraw lets the applicant retract a submitted application.
func (s *ApplicationService) Withdraw(ctx context.Context, actorID, applicationID uint64) (*models.Application, error) {
	var app *models.Application
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		app, err = findApplication(ctx, tx.Applications, applicationID)
		if err != nil {
			return err
		}
		if app.UserID != actorID {
			return ErrNotApplicant
		}
		return transition(ctx, tx.Applications, app, models.ApplicationWithdrawn)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ApplicationTransitioned(string(app.Status))
	s.log.WithField("application_id", app.ID).Info("Application withdrawn")
	return app, nil
}

// ListMine returns the actor's applications newest first.
func (s *ApplicationService) ListMine(ctx context.Context, actorID uint64) ([]models.Application, error) {
	apps, err := s.store.Applications.ListByUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// ListForOpportunity returns the applications of an opportunity to its organization admins.
func (s *ApplicationService) ListForOpportunity(ctx context.Context, actorID, opportunityID uint64) ([]models.Application, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	opp, err := findOpportunity(ctx, s.store.Opportunities, opportunityID)
	if err != nil {
		return nil, err
	}
	if _, err := NewAuthorizer(s.store.Organizations).RequireOrgAdmin(ctx, actor, opp.OrganizationID); err != nil {
		return nil, err
	}

	apps, err := s.store.Applications.ListByOpportunity(ctx, opp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func findApplication(ctx context.Context, apps repository.ApplicationRepository, id uint64) (*models.Application, error) {
	app, err := apps.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return app, nil
}

// transition moves app to next with a conditional update so that only one of
// several concurrent transitions succeeds.
func transition(ctx context.Context, apps repository.ApplicationRepository, app *models.Application, next models.ApplicationStatus) error {
	if !app.Status.CanTransitionTo(next) {
		return ErrApplicationFinal
	}
	ok, err := apps.TransitionStatus(ctx, app.ID, app.Status, next)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}
	if !ok {
		return ErrApplicationFinal
	}
	app.Status = next
	return nil
}
