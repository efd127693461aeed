package models

import (
	"fmt"
	"strings"
	"time"
)

// MemberRole is a role scoped to a single organization.
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// ParseMemberRole converts a raw string into a MemberRole. An empty string yields member.
func ParseMemberRole(s string) (MemberRole, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MemberRoleMember, nil
	}
	switch r := MemberRole(s); r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember:
		return r, nil
	default:
		return "", fmt.Errorf("unknown member role %q", s)
	}
}

// Elevated reports whether the role carries administrative rights over the organization.
func (r MemberRole) Elevated() bool {
	return r == MemberRoleOwner || r == MemberRoleAdmin
}

type OrganizationMember struct {
	OrganizationID uint64     `gorm:"primarykey;autoIncrement:false" json:"organization_id"`
	UserID         uint64     `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Role           MemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt       time.Time  `json:"joined_at"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
