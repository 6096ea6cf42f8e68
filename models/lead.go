// Package models contains domain entities and business models for the lead tracking system
package models

import (
	"time"
)

type Lead struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Division   string    `gorm:"size:100;not null;index:idx_leads_division" json:"division"`
	AssignedTo string    `gorm:"size:255;not null;index:idx_leads_assigned_to" json:"assignedTo"`
	Status     string    `gorm:"size:50;not null;default:New;index:idx_leads_status" json:"status"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_leads_created_at" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	Comments   []Comment  `gorm:"foreignKey:LeadID;references:ID" json:"comments,omitempty"`
	FollowUps  []FollowUp `gorm:"foreignKey:LeadID;references:ID" json:"followUps,omitempty"`
	Activities []Activity `gorm:"foreignKey:LeadID;references:ID" json:"activities,omitempty"`
}

func (Lead) TableName() string {
	return "leads"
}

// Lead status constants
const (
	LeadStatusNew        = "New"
	LeadStatusInProgress = "In Progress"
	LeadStatusClosed     = "Closed"
	LeadStatusTerminated = "Terminated"
)

// Division constants
const (
	DivisionRealEstateConsulting = "Real Estate Consulting"
	DivisionManagementConsulting = "Management Consulting"
	DivisionTrading              = "Trading"
	DivisionRealEstateBrokerage  = "Real Estate Brokerage"
	DivisionMAPrivateEquity      = "M&A and Private Equity"
)

// LeadStatuses lists every valid lead status
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusInProgress,
	LeadStatusClosed,
	LeadStatusTerminated,
}

// Divisions lists every valid business division
var Divisions = []string{
	DivisionRealEstateConsulting,
	DivisionManagementConsulting,
	DivisionTrading,
	DivisionRealEstateBrokerage,
	DivisionMAPrivateEquity,
}

// LeadFilter represents filter criteria for lead queries
type LeadFilter struct {
	ID            *uint
	Title         *string
	Division      *string
	AssignedTo    *string
	Status        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// IsValidLeadStatus reports whether the status is one of the known lead statuses
func IsValidLeadStatus(status string) bool {
	for _, s := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidDivision reports whether the division is one of the known divisions
func IsValidDivision(division string) bool {
	for _, d := range Divisions {
		if d == division {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether the status ends the lead lifecycle
func IsTerminalStatus(status string) bool {
	return status == LeadStatusClosed || status == LeadStatusTerminated
}

func (l *Lead) IsClosed() bool {
	return l.Status == LeadStatusClosed
}

func (l *Lead) IsTerminated() bool {
	return l.Status == LeadStatusTerminated
}
