// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kitsune/models"
	"gorm.io/gorm"
)

// LeadRepositoryImpl implements LeadRepository interface
type LeadRepositoryImpl struct {
	*BaseRepository[models.Lead, models.LeadFilter]
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Lead, models.LeadFilter](db),
	}
}

// WithRelations retrieves a lead by ID with comments, follow-ups, and activities preloaded
func (r *LeadRepositoryImpl) WithRelations(ctx context.Context, id uint) (*models.Lead, error) {
	db := r.getDB(ctx)

	var lead models.Lead
	err := db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
		return db.Order("scheduled_date ASC, scheduled_time ASC")
	}).Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Last(&lead, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &lead, nil
}

// ListWithRelations retrieves all leads, newest first, with related collections preloaded
func (r *LeadRepositoryImpl) ListWithRelations(ctx context.Context) ([]*models.Lead, error) {
	db := r.getDB(ctx)

	var leads []*models.Lead
	err := db.Preload("Comments", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("FollowUps", func(db *gorm.DB) *gorm.DB {
		return db.Order("scheduled_date ASC, scheduled_time ASC")
	}).Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}).Order("created_at DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}

	return leads, nil
}

// Update persists changes to an existing lead
func (r *LeadRepositoryImpl) Update(ctx context.Context, lead *models.Lead) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Lead{}).
		Where("id = ?", lead.ID).
		Updates(map[string]any{
			"title":       lead.Title,
			"division":    lead.Division,
			"assigned_to": lead.AssignedTo,
			"status":      lead.Status,
			"updated_at":  lead.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update lead %d: %w", lead.ID, err)
	}

	return nil
}

// DeleteCascade removes a lead and its dependents. Activities go first, then
// comments and follow-ups, then the lead row itself.
func (r *LeadRepositoryImpl) DeleteCascade(ctx context.Context, leadID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	if err = db.Where("lead_id = ?", leadID).Delete(&models.Activity{}).Error; err != nil {
		return fmt.Errorf("failed to delete activities for lead %d: %w", leadID, err)
	}
	if err = db.Where("lead_id = ?", leadID).Delete(&models.Comment{}).Error; err != nil {
		return fmt.Errorf("failed to delete comments for lead %d: %w", leadID, err)
	}
	if err = db.Where("lead_id = ?", leadID).Delete(&models.FollowUp{}).Error; err != nil {
		return fmt.Errorf("failed to delete follow-ups for lead %d: %w", leadID, err)
	}
	if err = db.Delete(&models.Lead{}, leadID).Error; err != nil {
		return fmt.Errorf("failed to delete lead %d: %w", leadID, err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *LeadRepositoryImpl) applyFilter(query *gorm.DB, filter models.LeadFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.Title != nil {
		query = query.Where("title = ?", *filter.Title)
	}

	if filter.Division != nil {
		query = query.Where("division = ?", *filter.Division)
	}

	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.CreatedAfter != nil {
		query = query.Where("created_at > ?", *filter.CreatedAfter)
	}

	if filter.CreatedBefore != nil {
		query = query.Where("created_at < ?", *filter.CreatedBefore)
	}

	return query
}

// ByFilter retrieves leads based on filter criteria
func (r *LeadRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Lead{})

	query = r.applyFilter(query, filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var leads []*models.Lead
	err := query.Find(&leads).Error
	if err != nil {
		return nil, err
	}

	return leads, nil
}

// Count returns the number of leads matching the filter
func (r *LeadRepositoryImpl) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Lead{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any lead matching the filter exists
func (r *LeadRepositoryImpl) Exists(ctx context.Context, filter models.LeadFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
