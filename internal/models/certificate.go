package models

import "time"

type CertificateStatus string

const CertificateIssued CertificateStatus = "issued"

type Certificate struct {
	ID             uint64            `gorm:"primarykey" json:"id"`
	VolunteerID    uint64            `gorm:"not null;index" json:"volunteer_id"`
	OrganizationID uint64            `gorm:"not null;index" json:"organization_id"`
	IssuedByID     uint64            `gorm:"not null" json:"issued_by_id"`
	OpportunityID  *uint64           `json:"opportunity_id"`
	Hours          float64           `gorm:"not null" json:"hours"`
	IssuedAt       time.Time         `gorm:"not null" json:"issued_at"`
	CompletedAt    *time.Time        `gorm:"type:date" json:"completed_at"`
	Status         CertificateStatus `gorm:"type:varchar(50);not null;default:'issued'" json:"status"`
	PDFPath        string            `gorm:"column:pdf_path;type:varchar(512)" json:"pdf_path"`
	Notes          string            `gorm:"type:text" json:"notes"`

	// Relations
	Volunteer    User         `gorm:"foreignKey:VolunteerID" json:"-"`
	IssuedBy     User         `gorm:"foreignKey:IssuedByID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Opportunity  *Opportunity `gorm:"foreignKey:OpportunityID" json:"-"`
}
