// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kitsune/models"
	"gorm.io/gorm"
)

// ActivityRepositoryImpl implements ActivityRepository interface
type ActivityRepositoryImpl struct {
	*BaseRepository[models.Activity, models.ActivityFilter]
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &ActivityRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Activity, models.ActivityFilter](db),
	}
}

// ListByLead retrieves all activities for a lead, newest first
func (r *ActivityRepositoryImpl) ListByLead(ctx context.Context, leadID uint) ([]*models.Activity, error) {
	filter := models.ActivityFilter{
		LeadID: &leadID,
	}

	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *ActivityRepositoryImpl) applyFilter(query *gorm.DB, filter models.ActivityFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}

	if filter.Author != nil {
		query = query.Where("author = ?", *filter.Author)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}

	return query
}

// ByFilter retrieves activities based on filter criteria
func (r *ActivityRepositoryImpl) ByFilter(ctx context.Context, filter models.ActivityFilter, orderBy string, limit, offset int) ([]*models.Activity, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Activity{})

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

	var activities []*models.Activity
	err := query.Find(&activities).Error
	if err != nil {
		return nil, err
	}

	return activities, nil
}

// Count returns the number of activities matching the filter
func (r *ActivityRepositoryImpl) Count(ctx context.Context, filter models.ActivityFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Activity{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any activity matching the filter exists
func (r *ActivityRepositoryImpl) Exists(ctx context.Context, filter models.ActivityFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
