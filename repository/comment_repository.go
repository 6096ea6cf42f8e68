// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Kitsune/models"
	"gorm.io/gorm"
)

// CommentRepositoryImpl implements CommentRepository interface
type CommentRepositoryImpl struct {
	*BaseRepository[models.Comment, models.CommentFilter]
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &CommentRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Comment, models.CommentFilter](db),
	}
}

// ListByLead retrieves all comments for a lead, oldest first
func (r *CommentRepositoryImpl) ListByLead(ctx context.Context, leadID uint) ([]*models.Comment, error) {
	filter := models.CommentFilter{
		LeadID: &leadID,
	}

	return r.ByFilter(ctx, filter, "created_at ASC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *CommentRepositoryImpl) applyFilter(query *gorm.DB, filter models.CommentFilter) *gorm.DB {
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

// ByFilter retrieves comments based on filter criteria
func (r *CommentRepositoryImpl) ByFilter(ctx context.Context, filter models.CommentFilter, orderBy string, limit, offset int) ([]*models.Comment, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Comment{})

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

	var comments []*models.Comment
	err := query.Find(&comments).Error
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// Count returns the number of comments matching the filter
func (r *CommentRepositoryImpl) Count(ctx context.Context, filter models.CommentFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Comment{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any comment matching the filter exists
func (r *CommentRepositoryImpl) Exists(ctx context.Context, filter models.CommentFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
