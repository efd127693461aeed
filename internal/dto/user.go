package dto

import (
	"time"

	"github.com/j-bridge/volunteerhub.com/internal/models"
	"github.com/j-bridge/volunteerhub.com/internal/tokens"
	"github.com/j-bridge/volunteerhub.com/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserSummaryDTO is the public view of a user embedded in other resources
type UserSummaryDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User         UserDTO          `json:"user"`
	Organization *OrganizationDTO `json:"organization,omitempty"`
	tokens.Pair
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToUserSummaryDTO converts a user model to its public summary
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{ID: user.ID, Email: user.Email, Name: user.Name}
}
