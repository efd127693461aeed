package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the global role of a user account.
type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleVolunteer, RoleOrganization, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(255)" json:"name"`
	Role         Role      `gorm:"type:varchar(50);not null;default:'volunteer'" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Memberships []OrganizationMember `gorm:"foreignKey:UserID" json:"-"`
}

// DisplayName returns the name if set, otherwise the email.
func (u User) DisplayName() string {
	if strings.TrimSpace(u.Name) != "" {
		return u.Name
	}
	return u.Email
}
