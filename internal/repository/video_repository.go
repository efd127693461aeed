package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// GormVideoRepository is a GORM implementation of VideoRepository
type GormVideoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &GormVideoRepository{db: db}
}

// Create creates a new video submission
func (r *GormVideoRepository) Create(ctx context.Context, video *models.VideoSubmission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(video).Error
}

// FindByID finds a video submission by ID
func (r *GormVideoRepository) FindByID(ctx context.Context, id uint64) (*models.VideoSubmission, error) {
	var video models.VideoSubmission
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// List lists video submissions newest first
func (r *GormVideoRepository) List(ctx context.Context, filter VideoFilter) ([]models.VideoSubmission, error) {
	query := r.db.WithContext(ctx).Model(&models.VideoSubmission{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var videos []models.VideoSubmission
	if err := query.Scopes(database.Newest("video_submissions")).Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// UpdateStatus sets the review status
func (r *GormVideoRepository) UpdateStatus(ctx context.Context, id uint64, status models.VideoStatus) error {
	return r.db.WithContext(ctx).Model(&models.VideoSubmission{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Count counts all video submissions
func (r *GormVideoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.VideoSubmission{}).Count(&count).Error
	return count, err
}

// Recent returns the most recently created video submissions
func (r *GormVideoRepository) Recent(ctx context.Context, limit int) ([]models.VideoSubmission, error) {
	var videos []models.VideoSubmission
	if err := r.db.WithContext(ctx).Scopes(database.Newest("video_submissions")).Limit(limit).Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}
