package models

import (
	"time"

	"gorm.io/gorm"
)

type Opportunity struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Location       string         `gorm:"type:varchar(255)" json:"location"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	IsActive       bool           `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
}

// ValidSchedule reports whether the end date, when both are present, is not before the start date.
func (o Opportunity) ValidSchedule() bool {
	if o.StartDate == nil || o.EndDate == nil {
		return true
	}
	return !o.EndDate.Before(*o.StartDate)
}
