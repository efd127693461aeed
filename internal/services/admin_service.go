package services

import (
	"context"
	"fmt"

	"github.com/j-bridge/volunteerhub.com/internal/constants"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// AdminService builds the site overview for administrators.
type AdminService struct {
	store *repository.Store
}

// NewAdminService creates a new AdminService.
func NewAdminService(store *repository.Store) *AdminService {
	return &AdminService{store: store}
}

// Counts holds the totals shown on the admin dashboard.
type Counts struct {
	Users               int64                 `json:"users"`
	UsersByRole         map[models.Role]int64 `json:"users_by_role"`
	Organizations       int64                 `json:"organizations"`
	Opportunities       int64                 `json:"opportunities"`
	ActiveOpportunities int64                 `json:"active_opportunities"`
	Applications        int64                 `json:"applications"`
	VideoSubmissions    int64                 `json:"video_submissions"`
}

// Summary is the admin dashboard payload.
type Summary struct {
	Counts              Counts                   `json:"counts"`
	RecentUsers         []models.User            `json:"recent_users"`
	RecentOpportunities []models.Opportunity     `json:"recent_opportunities"`
	RecentApplications  []models.Application     `json:"recent_applications"`
	RecentVideos        []models.VideoSubmission `json:"recent_videos"`
}

// Summary returns site-wide counts and the most recent rows of each kind.
func (s *AdminService) Summary(ctx context.Context, actorID uint64) (*Summary, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	if !IsSiteAdmin(actor) {
		return nil, ErrAdminRequired
	}

	var summary Summary
	if summary.Counts.UsersByRole, err = s.store.Users.CountByRole(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for _, n := range summary.Counts.UsersByRole {
		summary.Counts.Users += n
	}
	if summary.Counts.Organizations, err = s.store.Organizations.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count organizations: %w", err)
	}
	if summary.Counts.Opportunities, summary.Counts.ActiveOpportunities, err = s.store.Opportunities.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count opportunities: %w", err)
	}
	if summary.Counts.Applications, err = s.store.Applications.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	if summary.Counts.VideoSubmissions, err = s.store.Videos.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count video submissions: %w", err)
	}

	limit := constants.SummaryRecentRows
	if summary.RecentUsers, err = s.store.Users.Recent(ctx, limit); err != nil {
		return nil, fmt.Errorf("failed to load recent users: %w", err)
	}
	if summary.RecentOpportunities, err = s.store.Opportunities.Recent(ctx, limit); err != nil {
		return nil, fmt.Errorf("failed to load recent opportunities: %w", err)
	}
	if summary.RecentApplications, err = s.store.Applications.Recent(ctx, limit); err != nil {
		return nil, fmt.Errorf("failed to load recent applications: %w", err)
	}
	if summary.RecentVideos, err = s.store.Videos.Recent(ctx, limit); err != nil {
		return nil, fmt.Errorf("failed to load recent videos: %w", err)
	}
	return &summary, nil
}
