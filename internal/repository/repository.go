package repository

import (
	"context"
	"iter"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// CreateWithOrganization creates a user, the organization they own,
	// and the owner membership within a single transaction.
	CreateWithOrganization(ctx context.Context, user *models.User, org *models.Organization, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns users newest first with pagination
	List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error)

	// Update saves all user fields
	Update(ctx context.Context, user *models.User) error

	// CountActiveByRole counts active users holding a global role
	CountActiveByRole(ctx context.Context, role models.Role) (int64, error)

	// CountByRole counts users grouped by global role
	CountByRole(ctx context.Context) (map[models.Role]int64, error)

	// Recent returns the most recently created users
	Recent(ctx context.Context, limit int) ([]models.User, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uint64) (*models.Organization, error)

	// FindByOwnerID finds the organization owned by the user
	FindByOwnerID(ctx context.Context, ownerID uint64) (*models.Organization, error)

	// List returns organizations newest first
	List(ctx context.Context, activeOnly bool) ([]models.Organization, error)

	// Update updates an organization
	Update(ctx context.Context, org *models.Organization) error

	// Count counts all organizations
	Count(ctx context.Context) (int64, error)

	// AddMember adds a member to an organization
	AddMember(ctx context.Context, member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(ctx context.Context, organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(ctx context.Context, organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(ctx context.Context, userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(ctx context.Context, organizationID uint64) ([]models.OrganizationMember, error)
}

// OpportunityFilter holds filtering options for listing opportunities
type OpportunityFilter struct {
	Location       string
	OrganizationID *uint64
	ActiveOnly     bool
}

// OpportunityRepository defines the interface for opportunity data access
type OpportunityRepository interface {
	// Create creates a new opportunity
	Create(ctx context.Context, opp *models.Opportunity) error

	// FindByID finds an opportunity that has not been deleted
	FindByID(ctx context.Context, id uint64) (*models.Opportunity, error)

	// Iterate streams opportunities matching the filter, newest first.
	// Each call of the returned sequence runs a fresh query.
	Iterate(ctx context.Context, filter OpportunityFilter) iter.Seq2[models.Opportunity, error]

	// Update updates an opportunity
	Update(ctx context.Context, opp *models.Opportunity) error

	// Delete soft deletes an opportunity
	Delete(ctx context.Context, id uint64) error

	// DeactivateByOrganization marks every opportunity of an organization inactive
	DeactivateByOrganization(ctx context.Context, organizationID uint64) (int64, error)

	// Count returns the total and active number of opportunities
	Count(ctx context.Context) (total int64, active int64, err error)

	// Recent returns the most recently created opportunities
	Recent(ctx context.Context, limit int) ([]models.Opportunity, error)
}

// ApplicationRepository defines the interface for application data access
type ApplicationRepository interface {
	// Create inserts a new application, returning ErrDuplicate for an existing pair
	Create(ctx context.Context, app *models.Application) error

	// FindByID finds an application with its opportunity
	FindByID(ctx context.Context, id uint64) (*models.Application, error)

	// TransitionStatus moves an application from one status to another.
	// It reports false when the row was no longer in the expected status.
	TransitionStatus(ctx context.Context, id uint64, from, to models.ApplicationStatus) (bool, error)

	// ListByUser lists a user's applications newest first
	ListByUser(ctx context.Context, userID uint64) ([]models.Application, error)

	// ListByOpportunity lists applications for an opportunity newest first
	ListByOpportunity(ctx context.Context, opportunityID uint64) ([]models.Application, error)

	// Count counts all applications
	Count(ctx context.Context) (int64, error)

	// Recent returns the most recently created applications
	Recent(ctx context.Context, limit int) ([]models.Application, error)
}

// CertificateFilter holds filtering options for listing certificates
type CertificateFilter struct {
	OrganizationID *uint64
	VolunteerID    *uint64
	IssuedByID     *uint64
}

// CertificateRepository defines the interface for certificate data access
type CertificateRepository interface {
	// Create creates a new certificate
	Create(ctx context.Context, cert *models.Certificate) error

	// FindByID finds a certificate by ID
	FindByID(ctx context.Context, id uint64) (*models.Certificate, error)

	// List lists certificates newest first
	List(ctx context.Context, filter CertificateFilter) ([]models.Certificate, error)

	// UpdatePDFPath records the rendered file for a certificate
	UpdatePDFPath(ctx context.Context, id uint64, path string) error
}

// VideoFilter holds filtering options for listing video submissions
type VideoFilter struct {
	Status *models.VideoStatus
	UserID *uint64
	Limit  int
}

// VideoRepository defines the interface for video submission data access
type VideoRepository interface {
	// Create creates a new video submission
	Create(ctx context.Context, video *models.VideoSubmission) error

	// FindByID finds a video submission by ID
	FindByID(ctx context.Context, id uint64) (*models.VideoSubmission, error)

	// List lists video submissions newest first
	List(ctx context.Context, filter VideoFilter) ([]models.VideoSubmission, error)

	// UpdateStatus sets the review status
	UpdateStatus(ctx context.Context, id uint64, status models.VideoStatus) error

	// Count counts all video submissions
	Count(ctx context.Context) (int64, error)

	// Recent returns the most recently created video submissions
	Recent(ctx context.Context, limit int) ([]models.VideoSubmission, error)
}
