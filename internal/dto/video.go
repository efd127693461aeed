package dto

import (
	"time"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// VideoDTO represents a video submission in API responses
type VideoDTO struct {
	ID            uint64             `json:"id"`
	UserID        uint64             `json:"user_id"`
	OpportunityID *uint64            `json:"opportunity_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	VideoURL      string             `json:"video_url"`
	Status        models.VideoStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToVideoDTO converts a video submission model to DTO
func ToVideoDTO(video models.VideoSubmission) VideoDTO {
	return VideoDTO{
		ID:            video.ID,
		UserID:        video.UserID,
		OpportunityID: video.OpportunityID,
		Title:         video.Title,
		Description:   video.Description,
		VideoURL:      video.VideoURL,
		Status:        video.Status,
		CreatedAt:     video.CreatedAt,
	}
}

// ToVideoDTOs converts a slice of video submissions
func ToVideoDTOs(videos []models.VideoSubmission) []VideoDTO {
	out := make([]VideoDTO, len(videos))
	for i, v := range videos {
		out[i] = ToVideoDTO(v)
	}
	return out
}
