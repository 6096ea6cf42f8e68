// Package models contains domain entities and business models for the lead tracking system
package models

import (
	"time"
)

type FollowUp struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LeadID      uint      `gorm:"not null;index:idx_follow_ups_lead_id" json:"leadId"`
	Description string    `gorm:"type:text;not null" json:"description"`
	// Stored as SQL DATE and TIME columns; kept as strings end to end
	ScheduledDate string    `gorm:"type:date;not null" json:"scheduledDate"`
	ScheduledTime string    `gorm:"type:time;not null" json:"scheduledTime"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (FollowUp) TableName() string {
	return "follow_ups"
}

// FollowUpFilter represents filter criteria for follow-up queries
type FollowUpFilter struct {
	ID             *uint
	LeadID         *uint
	ScheduledAfter *string
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}
