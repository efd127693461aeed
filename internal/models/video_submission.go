package models

import (
	"fmt"
	"strings"
	"time"
)

type VideoStatus string

const (
	VideoSubmitted VideoStatus = "submitted"
	VideoApproved  VideoStatus = "approved"
	VideoRejected  VideoStatus = "rejected"
)

// ParseVideoStatus rejects statuses outside the review workflow.
func ParseVideoStatus(s string) (VideoStatus, error) {
	switch v := VideoStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case VideoSubmitted, VideoApproved, VideoRejected:
		return v, nil
	default:
		return "", fmt.Errorf("unknown video status %q", s)
	}
}

type VideoSubmission struct {
	ID            uint64      `gorm:"primarykey" json:"id"`
	UserID        uint64      `gorm:"not null;index" json:"user_id"`
	OpportunityID *uint64     `json:"opportunity_id"`
	Title         string      `gorm:"type:varchar(255);not null" json:"title"`
	Description   string      `gorm:"type:text" json:"description"`
	VideoURL      string      `gorm:"type:varchar(512);not null" json:"video_url"`
	Status        VideoStatus `gorm:"type:varchar(50);not null;default:'submitted'" json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
