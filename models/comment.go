// Package models contains domain entities and business models for the lead tracking system
package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LeadID    uint      `gorm:"not null;index:idx_comments_lead_id" json:"leadId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentFilter represents filter criteria for comment queries
type CommentFilter struct {
	ID            *uint
	LeadID        *uint
	Author        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
