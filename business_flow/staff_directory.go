// Package businessflow contains the core business logic and use cases for lead tracking workflows
package businessflow

import (
	"context"
	"encoding/json"

	"github.com/amirphl/Kitsune/config"
	"github.com/amirphl/Kitsune/models"
	"github.com/amirphl/Kitsune/repository"
	"github.com/amirphl/Kitsune/utils"
	"github.com/redis/go-redis/v9"
)

// StaffDirectory resolves staff members, serving reads from Redis when a
// cache is configured and falling through to Postgres otherwise.
type StaffDirectory interface {
	ByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Staff, error)
	ByName(ctx context.Context, name string) (*models.Staff, error)
	ListActive(ctx context.Context) ([]*models.Staff, error)
}

// StaffDirectoryImpl implements StaffDirectory
type StaffDirectoryImpl struct {
	staffRepo   repository.StaffRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

// NewStaffDirectory creates a new staff directory instance. rc may be nil
// when caching is disabled; lookups then always hit the database.
func NewStaffDirectory(staffRepo repository.StaffRepository, rc *redis.Client, cacheConfig *config.CacheConfig) StaffDirectory {
	return &StaffDirectoryImpl{
		staffRepo:   staffRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
	}
}

func redisKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

// ByPhoneNumber resolves a staff member by normalized phone number
func (s *StaffDirectoryImpl) ByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Staff, error) {
	if s.rc != nil {
		cacheKey := redisKey(*s.cacheConfig, utils.StaffPhoneCacheKeyPrefix+phoneNumber)
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached models.Staff
			if err := json.Unmarshal(bs, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	staff, err := s.staffRepo.ByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, nil
	}

	if s.rc != nil {
		cacheKey := redisKey(*s.cacheConfig, utils.StaffPhoneCacheKeyPrefix+phoneNumber)
		if bs, err := json.Marshal(staff); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, s.cacheConfig.DefaultTTL).Err()
		}
	}

	return staff, nil
}

// ByName resolves a staff member by display name. Name lookups are rare, so
// they always go straight to the database.
func (s *StaffDirectoryImpl) ByName(ctx context.Context, name string) (*models.Staff, error) {
	return s.staffRepo.ByName(ctx, name)
}

// ListActive returns all active staff members, cached as a single entry
func (s *StaffDirectoryImpl) ListActive(ctx context.Context) ([]*models.Staff, error) {
	if s.rc != nil {
		cacheKey := redisKey(*s.cacheConfig, utils.StaffActiveCacheKey)
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached []*models.Staff
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	members, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if s.rc != nil {
		cacheKey := redisKey(*s.cacheConfig, utils.StaffActiveCacheKey)
		if bs, err := json.Marshal(members); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, s.cacheConfig.DefaultTTL).Err()
		}
	}

	return members, nil
}
