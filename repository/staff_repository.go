// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/utils"
	"gorm.io/gorm"
)

// StaffRepositoryImpl implements StaffRepository interface
type StaffRepositoryImpl struct {
	*BaseRepository[models.Staff, models.StaffFilter]
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &StaffRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Staff, models.StaffFilter](db),
	}
}

// ByPhoneNumber retrieves a staff member by normalized phone number
func (r *StaffRepositoryImpl) ByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Staff, error) {
	db := r.getDB(ctx)

	var staff models.Staff
	err := db.Where("phone_number = ?", phoneNumber).Last(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &staff, nil
}

// ByName retrieves a staff member by display name
func (r *StaffRepositoryImpl) ByName(ctx context.Context, name string) (*models.Staff, error) {
	db := r.getDB(ctx)

	var staff models.Staff
	err := db.Where("name = ?", name).Last(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &staff, nil
}

// ListActive retrieves all active staff members ordered by name
func (r *StaffRepositoryImpl) ListActive(ctx context.Context) ([]*models.Staff, error) {
	filter := models.StaffFilter{
		IsActive: utils.ToPtr(true),
	}

	return r.ByFilter(ctx, filter, "name ASC", 0, 0)
}

// applyFilter applies filter criteria to a GORM query
func (r *StaffRepositoryImpl) applyFilter(query *gorm.DB, filter models.StaffFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}

	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	return query
}

// ByFilter retrieves staff members based on filter criteria
func (r *StaffRepositoryImpl) ByFilter(ctx context.Context, filter models.StaffFilter, orderBy string, limit, offset int) ([]*models.Staff, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Staff{})

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

	var members []*models.Staff
	err := query.Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

// Count returns the number of staff members matching the filter
func (r *StaffRepositoryImpl) Count(ctx context.Context, filter models.StaffFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.Staff{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any staff member matching the filter exists
func (r *StaffRepositoryImpl) Exists(ctx context.Context, filter models.StaffFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
