// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kitsune/models"
	"gorm.io/gorm"
)

// FollowUpRepositoryImpl implements FollowUpRepository interface
type FollowUpRepositoryImpl struct {
	*BaseRepository[models.FollowUp, models.FollowUpFilter]
}

// NewFollowUpRepository creates a new follow-up repository
func NewFollowUpRepository(db *gorm.DB) FollowUpRepository {
	return &FollowUpRepositoryImpl{
		BaseRepository: NewBaseRepository[models.FollowUp, models.FollowUpFilter](db),
	}
}

// ListByLead retrieves all follow-ups for a lead ordered by schedule
func (r *FollowUpRepositoryImpl) ListByLead(ctx context.Context, leadID uint) ([]*models.FollowUp, error) {
	filter := models.FollowUpFilter{
		LeadID: &leadID,
	}

	return r.ByFilter(ctx, filter, "scheduled_date ASC, scheduled_time ASC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *FollowUpRepositoryImpl) applyFilter(query *gorm.DB, filter models.FollowUpFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}

	if filter.ScheduledAfter != nil {
		query = query.Where("scheduled_date >= ?", *filter.ScheduledAfter)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}

	return query
}

// ByFilter retrieves follow-ups based on filter criteria
func (r *FollowUpRepositoryImpl) ByFilter(ctx context.Context, filter models.FollowUpFilter, orderBy string, limit, offset int) ([]*models.FollowUp, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FollowUp{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var followUps []*models.FollowUp
	err := query.Find(&followUps).Error
	if err != nil {
		return nil, err
	}

	return followUps, nil
}

// Count returns the number of follow-ups matching the filter
func (r *FollowUpRepositoryImpl) Count(ctx context.Context, filter models.FollowUpFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.FollowUp{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any follow-up matching the filter exists
func (r *FollowUpRepositoryImpl) Exists(ctx context.Context, filter models.FollowUpFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
