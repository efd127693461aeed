package repository

import (
	"context"
	"iter"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/j-bridge/volunteerhub.com/internal/database"
	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// GormOpportunityRepository is a GORM implementation of OpportunityRepository
type GormOpportunityRepository struct {
	db *gorm.DB
}

// NewOpportunityRepository creates a new OpportunityRepository
func NewOpportunityRepository(db *gorm.DB) OpportunityRepository {
	return &GormOpportunityRepository{db: db}
}

// Create creates a new opportunity
func (r *GormOpportunityRepository) Create(ctx context.Context, opp *models.Opportunity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(opp).Error
}

// FindByID finds an opportunity that has not been deleted
func (r *GormOpportunityRepository) FindByID(ctx context.Context, id uint64) (*models.Opportunity, error) {
	var opp models.Opportunity
	if err := r.db.WithContext(ctx).First(&opp, id).Error; err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *GormOpportunityRepository) filtered(ctx context.Context, filter OpportunityFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Opportunity{})

	if filter.ActiveOnly {
		query = query.Where("opportunities.is_active = ?", true)
	}
	if filter.OrganizationID != nil {
		query = query.Where("opportunities.organization_id = ?", *filter.OrganizationID)
	}
	if loc := strings.TrimSpace(filter.Location); loc != "" {
		query = query.Where("LOWER(opportunities.location) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(loc))+"%")
	}

	return query.Scopes(database.Newest("opportunities"))
}

// likeEscaper makes user input match literally in a LIKE pattern; '!' is the
// escape character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Iterate streams opportunities matching the filter, newest first.
func (r *GormOpportunityRepository) Iterate(ctx context.Context, filter OpportunityFilter) iter.Seq2[models.Opportunity, error] {
	return func(yield func(models.Opportunity, error) bool) {
		query := r.filtered(ctx, filter)
		rows, err := query.Rows()
		if err != nil {
			yield(models.Opportunity{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var opp models.Opportunity
			if err := query.ScanRows(rows, &opp); err != nil {
				yield(models.Opportunity{}, err)
				return
			}
			if !yield(opp, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.Opportunity{}, err)
		}
	}
}

// Update updates an opportunity
func (r *GormOpportunityRepository) Update(ctx context.Context, opp *models.Opportunity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(opp).Error
}

// Delete soft deletes an opportunity. Applications are left in place.
func (r *GormOpportunityRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Opportunity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeactivateByOrganization marks every opportunity of an organization inactive
func (r *GormOpportunityRepository) DeactivateByOrganization(ctx context.Context, organizationID uint64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Opportunity{}).
		Where("organization_id = ? AND is_active = ?", organizationID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// Count returns the total and active number of opportunities
func (r *GormOpportunityRepository) Count(ctx context.Context) (int64, int64, error) {
	var total, active int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Opportunity{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Opportunity{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

// Recent returns the most recently created opportunities
func (r *GormOpportunityRepository) Recent(ctx context.Context, limit int) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	if err := r.db.WithContext(ctx).Scopes(database.Newest("opportunities")).Limit(limit).Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}
