package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// GormApplicationRepository is a GORM implementation of ApplicationRepository
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Create inserts a new application. The unique index on (user_id, opportunity_id)
// decides between concurrent duplicates.
func (r *GormApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(app).Error)
}

// FindByID finds an application with its opportunity. Soft-deleted opportunities are still loaded.
func (r *GormApplicationRepository) FindByID(ctx context.Context, id uint64) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).
		Preload("Opportunity", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// TransitionStatus performs a conditional update guarded by the current status.
func (r *GormApplicationRepository) TransitionStatus(ctx context.Context, id uint64, from, to models.ApplicationStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByUser lists a user's applications newest first
func (r *GormApplicationRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).
		Preload("Opportunity", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ?", userID).
		Scopes(database.Newest("applications")).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// ListByOpportunity lists applications for an opportunity newest first
func (r *GormApplicationRepository) ListByOpportunity(ctx context.Context, opportunityID uint64) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("opportunity_id = ?", opportunityID).
		Scopes(database.Newest("applications")).
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Count counts all applications
func (r *GormApplicationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Count(&count).Error
	return count, err
}

// Recent returns the most recently created applications
func (r *GormApplicationRepository) Recent(ctx context.Context, limit int) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).Scopes(database.Newest("applications")).Limit(limit).Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}
