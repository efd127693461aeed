package dto

import (
	"time"

	"github.com/j-bridge/volunteerhub.com/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email"`
	Description  string    `json:"description"`
	OwnerID      *uint64   `json:"owner_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.MemberRole `json:"role"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User     UserSummaryDTO    `json:"user"`
	Role     models.MemberRole `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

// ToOrganizationDTO converts an organization model to DTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:           org.ID,
		Name:         org.Name,
		ContactEmail: org.ContactEmail,
		Description:  org.Description,
		OwnerID:      org.OwnerID,
		IsActive:     org.IsActive,
		CreatedAt:    org.CreatedAt,
	}
}

// ToOrganizationDTOs converts a slice of organizations
func ToOrganizationDTOs(orgs []models.Organization) []OrganizationDTO {
	out := make([]OrganizationDTO, len(orgs))
	for i, org := range orgs {
		out[i] = ToOrganizationDTO(org)
	}
	return out
}

// ToOrganizationWithRoleDTO converts an organization member to DTO with role
func ToOrganizationWithRoleDTO(member models.OrganizationMember) OrganizationWithRoleDTO {
	return OrganizationWithRoleDTO{
		OrganizationDTO: ToOrganizationDTO(member.Organization),
		Role:            member.Role,
	}
}

// ToOrganizationMemberDTO converts a member to DTO
func ToOrganizationMemberDTO(member models.OrganizationMember) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:     ToUserSummaryDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToOrganizationMemberDTOs converts a slice of members
func ToOrganizationMemberDTOs(members []models.OrganizationMember) []OrganizationMemberDTO {
	out := make([]OrganizationMemberDTO, len(members))
	for i, m := range members {
		out[i] = ToOrganizationMemberDTO(m)
	}
	return out
}
