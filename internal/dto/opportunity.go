package dto

import (
	"time"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// OpportunityDTO represents an opportunity in API responses
type OpportunityDTO struct {
	ID             uint64     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	OrganizationID uint64     `json:"organization_id"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OpportunityListResponse wraps a listing
type OpportunityListResponse struct {
	Opportunities []OpportunityDTO `json:"opportunities"`
	Count         int              `json:"count"`
}

// ToOpportunityDTO converts an opportunity model to DTO
func ToOpportunityDTO(opp models.Opportunity) OpportunityDTO {
	return OpportunityDTO{
		ID:             opp.ID,
		Title:          opp.Title,
		Description:    opp.Description,
		Location:       opp.Location,
		StartDate:      opp.StartDate,
		EndDate:        opp.EndDate,
		OrganizationID: opp.OrganizationID,
		IsActive:       opp.IsActive,
		CreatedAt:      opp.CreatedAt,
		UpdatedAt:      opp.UpdatedAt,
	}
}
