// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/utils"
	"gorm.io/gorm"
)

// VerificationCodeRepositoryImpl implements VerificationCodeRepository interface
type VerificationCodeRepositoryImpl struct {
	*BaseRepository[models.VerificationCode, models.VerificationCodeFilter]
}

// NewVerificationCodeRepository creates a new verification code repository
func NewVerificationCodeRepository(db *gorm.DB) VerificationCodeRepository {
	return &VerificationCodeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.VerificationCode, models.VerificationCodeFilter](db),
	}
}

// ActiveByPhoneAndCode retrieves an unexpired code matching both the phone
// number and the code value. Returns nil when no such row exists.
func (r *VerificationCodeRepositoryImpl) ActiveByPhoneAndCode(ctx context.Context, phoneNumber, code string) (*models.VerificationCode, error) {
	db := r.getDB(ctx)

	var verification models.VerificationCode
	err := db.Where("phone_number = ? AND code = ? AND expires_at > ?", phoneNumber, code, utils.UTCNow()).
		Last(&verification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &verification, nil
}

// DeleteByPhone removes every code issued to a phone number. Issuing a new
// code calls this first so only the latest code is ever honored.
func (r *VerificationCodeRepositoryImpl) DeleteByPhone(ctx context.Context, phoneNumber string) error {
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

	err = db.Where("phone_number = ?", phoneNumber).Delete(&models.VerificationCode{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete verification codes for phone: %w", err)
	}

	return nil
}

// DeleteExpiredByPhone removes codes for a phone number that are past their expiry
func (r *VerificationCodeRepositoryImpl) DeleteExpiredByPhone(ctx context.Context, phoneNumber string) error {
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

	err = db.Where("phone_number = ? AND expires_at <= ?", phoneNumber, utils.UTCNow()).
		Delete(&models.VerificationCode{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete expired verification codes: %w", err)
	}

	return nil
}

// DeleteByID removes a single code row. Called after a successful
// verification so a code can never be used twice.
func (r *VerificationCodeRepositoryImpl) DeleteByID(ctx context.Context, id uint) error {
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

	err = db.Delete(&models.VerificationCode{}, id).Error
	if err != nil {
		return fmt.Errorf("failed to delete verification code %d: %w", id, err)
	}

	return nil
}

// applyFilter applies filter criteria to a GORM query
func (r *VerificationCodeRepositoryImpl) applyFilter(query *gorm.DB, filter models.VerificationCodeFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}

	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}

	if filter.Code != nil {
		query = query.Where("code = ?", *filter.Code)
	}

	if filter.ExpiresAfter != nil {
		query = query.Where("expires_at > ?", *filter.ExpiresAfter)
	}

	if filter.ExpiresBefore != nil {
		query = query.Where("expires_at < ?", *filter.ExpiresBefore)
	}

	return query
}

// ByFilter retrieves verification codes based on filter criteria
func (r *VerificationCodeRepositoryImpl) ByFilter(ctx context.Context, filter models.VerificationCodeFilter, orderBy string, limit, offset int) ([]*models.VerificationCode, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.VerificationCode{})

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

	var codes []*models.VerificationCode
	err := query.Find(&codes).Error
	if err != nil {
		return nil, err
	}

	return codes, nil
}

// Count returns the number of verification codes matching the filter
func (r *VerificationCodeRepositoryImpl) Count(ctx context.Context, filter models.VerificationCodeFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.VerificationCode{})

	query = r.applyFilter(query, filter)

	var count int64
	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any verification code matching the filter exists
func (r *VerificationCodeRepositoryImpl) Exists(ctx context.Context, filter models.VerificationCodeFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
