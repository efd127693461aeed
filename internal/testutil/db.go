// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// NewDB opens a migrated in-memory SQLite database that is closed with the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts an active user with the given role and password "Passw0rd1".
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.WithContext(context.Background()).Omit("Memberships").Create(user).Error)
	return user
}

// CreateOrganization inserts an organization owned by owner with an owner membership.
func CreateOrganization(t *testing.T, db *gorm.DB, name string, owner *models.User) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name:     name,
		IsActive: true,
	}
	if owner != nil {
		org.OwnerID = &owner.ID
		org.ContactEmail = owner.Email
	}
	require.NoError(t, db.Omit("Owner", "Members", "Opportunities").Create(org).Error)

	if owner != nil {
		AddMember(t, db, org, owner, models.MemberRoleOwner)
	}
	return org
}

// AddMember inserts a membership row.
func AddMember(t *testing.T, db *gorm.DB, org *models.Organization, user *models.User, role models.MemberRole) {
	t.Helper()

	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		UserID:         user.ID,
		Role:           role,
		JoinedAt:       time.Now(),
	}
	require.NoError(t, db.Omit("Organization", "User").Create(member).Error)
}

// CreateOpportunity inserts an active opportunity.
func CreateOpportunity(t *testing.T, db *gorm.DB, org *models.Organization, title, location string) *models.Opportunity {
	t.Helper()

	opp := &models.Opportunity{
		Title:          title,
		Location:       location,
		OrganizationID: org.ID,
		IsActive:       true,
	}
	require.NoError(t, db.Omit("Organization").Create(opp).Error)
	return opp
}
