// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kitsune/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	WithRelations(ctx context.Context, id uint) (*models.Lead, error)
	ListWithRelations(ctx context.Context) ([]*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	DeleteCascade(ctx context.Context, leadID uint) error
}

// CommentRepository defines operations for lead comments
type CommentRepository interface {
	Repository[models.Comment, models.CommentFilter]
	ListByLead(ctx context.Context, leadID uint) ([]*models.Comment, error)
}

// FollowUpRepository defines operations for lead follow-ups
type FollowUpRepository interface {
	Repository[models.FollowUp, models.FollowUpFilter]
	ListByLead(ctx context.Context, leadID uint) ([]*models.FollowUp, error)
}

// ActivityRepository defines operations for lead activities
type ActivityRepository interface {
	Repository[models.Activity, models.ActivityFilter]
	ListByLead(ctx context.Context, leadID uint) ([]*models.Activity, error)
}

// VerificationCodeRepository defines operations for one-time login codes
type VerificationCodeRepository interface {
	Repository[models.VerificationCode, models.VerificationCodeFilter]
	ActiveByPhoneAndCode(ctx context.Context, phoneNumber, code string) (*models.VerificationCode, error)
	DeleteByPhone(ctx context.Context, phoneNumber string) error
	DeleteExpiredByPhone(ctx context.Context, phoneNumber string) error
	DeleteByID(ctx context.Context, id uint) error
}

// StaffRepository defines operations for the staff directory
type StaffRepository interface {
	Repository[models.Staff, models.StaffFilter]
	ByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Staff, error)
	ByName(ctx context.Context, name string) (*models.Staff, error)
	ListActive(ctx context.Context) ([]*models.Staff, error)
}
