package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

type indexSpec struct {
	model interface{}
	name  string
	sql   string
}

// AddIndexes creates query indexes that are not expressed through struct tags.
func AddIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	indexes := []indexSpec{
		// Catalog listing is ordered by recency
		{&models.Opportunity{}, "idx_opportunities_created_at", "CREATE INDEX idx_opportunities_created_at ON opportunities (created_at)"},
		{&models.Opportunity{}, "idx_opportunities_is_active", "CREATE INDEX idx_opportunities_is_active ON opportunities (is_active)"},

		// Review queues and "my applications"
		{&models.Application{}, "idx_applications_opportunity_status", "CREATE INDEX idx_applications_opportunity_status ON applications (opportunity_id, status)"},

		// Membership lookups by user
		{&models.OrganizationMember{}, "idx_org_members_user_id", "CREATE INDEX idx_org_members_user_id ON organization_members (user_id)"},

		// Public video listing
		{&models.VideoSubmission{}, "idx_video_submissions_status", "CREATE INDEX idx_video_submissions_status ON video_submissions (status)"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithField("index", idx.name).Info("Created index")
	}

	return nil
}

// MigrateDatabase runs the schema migration followed by the explicit indexes.
func MigrateDatabase(db *gorm.DB, log logrus.FieldLogger) error {
	log.Info("Running database migrations...")
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("Database migrations completed")
	return nil
}
