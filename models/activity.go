// Package models contains domain entities and business models for the lead tracking system
package models

import (
	"time"
)

// Activity is a derived timeline entry; rows are written only by lead
// mutations, never directly by clients.
type Activity struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LeadID      uint      `gorm:"not null;index:idx_activities_lead_id" json:"leadId"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Author      string    `gorm:"size:255;not null" json:"author"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_activities_created_at" json:"createdAt"`
}

func (Activity) TableName() string {
	return "activities"
}

// Activity description constants
const (
	ActivityLeadCreated       = "Lead created"
	ActivityLeadUpdated       = "Lead updated"
	ActivityCommentAdded      = "New comment added"
	ActivityFollowUpScheduled = "New follow-up scheduled"
)

// ActivityFilter represents filter criteria for activity queries
type ActivityFilter struct {
	ID            *uint
	LeadID        *uint
	Author        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
