package dto

import (
	"time"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// ApplicationDTO represents an application in API responses
type ApplicationDTO struct {
	ID            uint64                   `json:"id"`
	UserID        uint64                   `json:"user_id"`
	OpportunityID uint64                   `json:"opportunity_id"`
	Status        models.ApplicationStatus `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	User          *UserSummaryDTO          `json:"user,omitempty"`
	Opportunity   *OpportunityDTO          `json:"opportunity,omitempty"`
}

// ToApplicationDTO converts an application model to DTO, embedding loaded relations
func ToApplicationDTO(app models.Application) ApplicationDTO {
	out := ApplicationDTO{
		ID:            app.ID,
		UserID:        app.UserID,
		OpportunityID: app.OpportunityID,
		Status:        app.Status,
		CreatedAt:     app.CreatedAt,
		UpdatedAt:     app.UpdatedAt,
	}
	if app.User.ID != 0 {
		user := ToUserSummaryDTO(app.User)
		out.User = &user
	}
	if app.Opportunity.ID != 0 {
		opp := ToOpportunityDTO(app.Opportunity)
		out.Opportunity = &opp
	}
	return out
}

// ToApplicationDTOs converts a slice of applications
func ToApplicationDTOs(apps []models.Application) []ApplicationDTO {
	out := make([]ApplicationDTO, len(apps))
	for i, app := range apps {
		out[i] = ToApplicationDTO(app)
	}
	return out
}
