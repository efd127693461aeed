package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/j-bridge/volunteerhub.com/internal/constants"
	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/repository"
)

// VideoService manages volunteer video submissions and their review.
type VideoService struct {
	store *repository.Store
	log   logrus.FieldLogger
}

// NewVideoService creates a new VideoService.
func NewVideoService(store *repository.Store, log logrus.FieldLogger) *VideoService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &VideoService{store: store, log: log.WithField("service", "videos")}
}

// CreateVideoInput represents a new video submission.
type CreateVideoInput struct {
	Title         string
	Description   string
	VideoURL      string
	OpportunityID *uint64
}

// Create stores a submission in the submitted state.
func (s *VideoService) Create(ctx context.Context, actorID uint64, input CreateVideoInput) (*models.VideoSubmission, error) {
	title := strings.TrimSpace(input.Title)
	if n := utf8.RuneCountInString(title); n < 3 || n > 255 {
		return nil, ErrInvalidVideoTitle
	}
	videoURL := strings.TrimSpace(input.VideoURL)
	if !validHTTPURL(videoURL) {
		return nil, ErrInvalidVideoURL
	}

	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	if input.OpportunityID != nil {
		if _, err := findOpportunity(ctx, s.store.Opportunities, *input.OpportunityID); err != nil {
			return nil, err
		}
	}

	video := &models.VideoSubmission{
		UserID:        actor.ID,
		OpportunityID: input.OpportunityID,
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		VideoURL:      videoURL,
		Status:        models.VideoSubmitted,
	}
	if err := s.store.Videos.Create(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to create video submission: %w", err)
	}

	s.log.WithFields(logrus.Fields{"video_id": video.ID, "user_id": actor.ID}).Info("Video submitted")
	return video, nil
}

// List returns the newest submissions. Only admins see unapproved submissions
// or may filter by status. A zero viewerID is an anonymous viewer.
func (s *VideoService) List(ctx context.Context, viewerID uint64, status string) ([]models.VideoSubmission, error) {
	viewerIsAdmin := false
	if viewerID != 0 {
		viewer, err := loadActor(ctx, s.store.Users, viewerID)
		switch {
		case err == nil:
			viewerIsAdmin = IsSiteAdmin(viewer)
		case !errors.Is(err, ErrInactiveAccount):
			return nil, err
		}
	}

	filter := repository.VideoFilter{Limit: constants.VideoListLimit}
	switch {
	case !viewerIsAdmin:
		approved := models.VideoApproved
		filter.Status = &approved
	case strings.TrimSpace(status) != "":
		parsed, err := models.ParseVideoStatus(status)
		if err != nil {
			return nil, ErrInvalidVideoStatus
		}
		filter.Status = &parsed
	}

	videos, err := s.store.Videos.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list video submissions: %w", err)
	}
	return videos, nil
}

// ListMine returns the actor's own submissions in every status.
func (s *VideoService) ListMine(ctx context.Context, actorID uint64) ([]models.VideoSubmission, error) {
	videos, err := s.store.Videos.List(ctx, repository.VideoFilter{UserID: &actorID})
	if err != nil {
		return nil, fmt.Errorf("failed to list video submissions: %w", err)
	}
	return videos, nil
}

// UpdateStatus records an admin review decision.
func (s *VideoService) UpdateStatus(ctx context.Context, actorID, id uint64, status string) (*models.VideoSubmission, error) {
	actor, err := loadActor(ctx, s.store.Users, actorID)
	if err != nil {
		return nil, err
	}
	if !IsSiteAdmin(actor) {
		return nil, ErrAdminRequired
	}
	parsed, err := models.ParseVideoStatus(status)
	if err != nil {
		return nil, ErrInvalidVideoStatus
	}

	video, err := s.store.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to find video submission: %w", err)
	}
	if err := s.store.Videos.UpdateStatus(ctx, video.ID, parsed); err != nil {
		return nil, fmt.Errorf("failed to update video submission: %w", err)
	}
	video.Status = parsed

	s.log.WithFields(logrus.Fields{"video_id": video.ID, "status": parsed, "actor_id": actorID}).Info("Video reviewed")
	return video, nil
}
