package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// GormCertificateRepository is a GORM implementation of CertificateRepository
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository creates a new CertificateRepository
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &GormCertificateRepository{db: db}
}

// Create creates a new certificate
func (r *GormCertificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(cert).Error
}

// FindByID finds a certificate by ID
func (r *GormCertificateRepository) FindByID(ctx context.Context, id uint64) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).First(&cert, id).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// List lists certificates newest first
func (r *GormCertificateRepository) List(ctx context.Context, filter CertificateFilter) ([]models.Certificate, error) {
	query := r.db.WithContext(ctx).Model(&models.Certificate{})

	if filter.OrganizationID != nil {
		query = query.Where("organization_id = ?", *filter.OrganizationID)
	}
	if filter.VolunteerID != nil {
		query = query.Where("volunteer_id = ?", *filter.VolunteerID)
	}
	if filter.IssuedByID != nil {
		query = query.Where("issued_by_id = ?", *filter.IssuedByID)
	}

	var certs []models.Certificate
	if err := query.Order("issued_at DESC").Order("id DESC").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

// UpdatePDFPath records the rendered file for a certificate
func (r *GormCertificateRepository) UpdatePDFPath(ctx context.Context, id uint64, path string) error {
	return r.db.WithContext(ctx).Model(&models.Certificate{}).
		Where("id = ?", id).
		Update("pdf_path", path).Error
}
