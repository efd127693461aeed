package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateOrganization is returned when creating an organization fails inside the registration transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
	// ErrCreateOrganizationMember is returned when creating the owner membership fails inside the registration transaction.
	ErrCreateOrganizationMember = errors.New("user repository: create organization member failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

// CreateWithOrganization creates a user, their organization, and the owner membership atomically.
func (r *GormUserRepository) CreateWithOrganization(ctx context.Context, user *models.User, org *models.Organization, member *models.OrganizationMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateUser, translate(err))
		}

		org.OwnerID = &user.ID
		if err := tx.Omit(clause.Associations).Create(org).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganization, translate(err))
		}

		member.OrganizationID = org.ID
		member.UserID = user.ID

		if err := tx.Omit(clause.Associations).Create(member).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrCreateOrganizationMember, translate(err))
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users newest first with pagination
func (r *GormUserRepository) List(ctx context.Context, params utils.PaginationParams) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Scopes(database.Newest("users"), database.Paginate(params)).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update saves all user fields
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// CountActiveByRole counts active users holding a global role
func (r *GormUserRepository) CountActiveByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Count(&count).Error
	return count, err
}

// CountByRole counts users grouped by global role
func (r *GormUserRepository) CountByRole(ctx context.Context) (map[models.Role]int64, error) {
	var rows []struct {
		Role  models.Role
		Total int64
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[models.Role]int64{
		models.RoleVolunteer:    0,
		models.RoleOrganization: 0,
		models.RoleAdmin:        0,
	}
	for _, row := range rows {
		counts[row.Role] = row.Total
	}
	return counts, nil
}

// Recent returns the most recently created users
func (r *GormUserRepository) Recent(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Scopes(database.Newest("users")).Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
