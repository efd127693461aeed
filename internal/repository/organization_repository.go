package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(org).Error)
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByOwnerID finds the organization owned by the user
func (r *GormOrganizationRepository) FindByOwnerID(ctx context.Context, ownerID uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// List returns organizations newest first
func (r *GormOrganizationRepository) List(ctx context.Context, activeOnly bool) ([]models.Organization, error) {
	query := r.db.WithContext(ctx).Scopes(database.Newest("organizations"))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var orgs []models.Organization
	if err := query.Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(org).Error)
}

// Count counts all organizations
func (r *GormOrganizationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Organization{}).Count(&count).Error
	return count, err
}

// AddMember adds a member to an organization
func (r *GormOrganizationRepository) AddMember(ctx context.Context, member *models.OrganizationMember) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error)
}

// RemoveMember removes a member from an organization
func (r *GormOrganizationRepository) RemoveMember(ctx context.Context, organizationID, userID uint64) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", organizationID, userID).
		Delete(&models.OrganizationMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindMember finds a specific organization member
func (r *GormOrganizationRepository) FindMember(ctx context.Context, organizationID, userID uint64) (*models.OrganizationMember, error) {
	var member models.OrganizationMember
	if err := r.db.WithContext(ctx).Where("organization_id = ? AND user_id = ?", organizationID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembersByUserID lists all organizations a user is a member of
func (r *GormOrganizationRepository) ListMembersByUserID(ctx context.Context, userID uint64) ([]models.OrganizationMember, error) {
	var memberships []models.OrganizationMember
	if err := r.db.WithContext(ctx).Preload("Organization").
		Where("user_id = ?", userID).
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembers lists all members of an organization
func (r *GormOrganizationRepository) ListMembers(ctx context.Context, organizationID uint64) ([]models.OrganizationMember, error) {
	var members []models.OrganizationMember
	if err := r.db.WithContext(ctx).Preload("User").
		Where("organization_id = ?", organizationID).
		Order("joined_at ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
