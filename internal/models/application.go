package models

import (
	"fmt"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// Decision is the outcome chosen by a reviewer.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ParseDecision rejects anything other than accept or reject.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case DecisionAccept, DecisionReject:
		return d, nil
	default:
		return "", fmt.Errorf("decision must be accept or reject, got %q", s)
	}
}

// Status returns the application status a decision leads to.
func (d Decision) Status() ApplicationStatus {
	if d == DecisionAccept {
		return ApplicationAccepted
	}
	return ApplicationRejected
}

// Terminal reports whether no further transition is possible.
func (s ApplicationStatus) Terminal() bool {
	return s != ApplicationSubmitted
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// Only submitted has outgoing edges.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s != ApplicationSubmitted {
		return false
	}
	switch next {
	case ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return true
	default:
		return false
	}
}

type Application struct {
	ID            uint64            `gorm:"primarykey" json:"id"`
	UserID        uint64            `gorm:"not null;uniqueIndex:idx_applications_user_opportunity" json:"user_id"`
	OpportunityID uint64            `gorm:"not null;uniqueIndex:idx_applications_user_opportunity" json:"opportunity_id"`
	Status        ApplicationStatus `gorm:"type:varchar(50);not null;default:'submitted'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relations
	User        User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Opportunity Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}
