package models

import "time"

type Organization struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	Description  string    `gorm:"type:text" json:"description"`
	OwnerID      *uint64   `gorm:"uniqueIndex" json:"owner_id"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Owner         *User                `gorm:"foreignKey:OwnerID" json:"-"`
	Members       []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"-"`
	Opportunities []Opportunity        `gorm:"foreignKey:OrganizationID" json:"-"`
}
