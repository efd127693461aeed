package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("repository: duplicate key")

// Store groups the repositories that share one database handle.
type Store struct {
	db *gorm.DB

	Users         UserRepository
	Organizations OrganizationRepository
	Opportunities OpportunityRepository
	Applications  ApplicationRepository
	Certificates  CertificateRepository
	Videos        VideoRepository
}

// NewStore creates a Store backed by GORM repositories.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Organizations: NewOrganizationRepository(db),
		Opportunities: NewOpportunityRepository(db),
		Applications:  NewApplicationRepository(db),
		Certificates:  NewCertificateRepository(db),
		Videos:        NewVideoRepository(db),
	}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with repositories bound to a single transaction.
// Returning an error from fn rolls the transaction back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsUniqueViolation reports whether err comes from a unique or primary key constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Fallback for dialectors without error translation
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}

// translate maps driver errors to repository errors.
func translate(err error) error {
	if IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
