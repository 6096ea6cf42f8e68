// Package models contains domain entities and business models for the lead tracking system
package models

import (
	"time"
)

// Staff is a member of the team allowed to sign in and own leads. The
// directory is data-driven; lead assignment and login both resolve against it.
type Staff struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex:idx_staff_members_name" json:"name"`
	PhoneNumber string    `gorm:"size:20;not null;uniqueIndex:idx_staff_members_phone" json:"phoneNumber"`
	IsActive    *bool     `gorm:"default:true" json:"isActive"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Staff) TableName() string {
	return "staff_members"
}

// StaffFilter represents filter criteria for staff queries
type StaffFilter struct {
	ID          *uint
	Name        *string
	PhoneNumber *string
	IsActive    *bool
}
