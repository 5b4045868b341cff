// Package adapters provides repository implementations for the statuses feature.
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"microblog_backend/internal/feature/statuses/domain/entity"
	"microblog_backend/internal/feature/statuses/usecase"
)

// statusMySQL is a MySQL implementation of the StatusRepository interface.
type statusMySQL struct {
	db *gorm.DB
}

// Compile-time check to ensure statusMySQL implements StatusRepository.
var _ usecase.StatusRepository = (*statusMySQL)(nil)

// NewStatusMySQL creates a new instance of statusMySQL.
func NewStatusMySQL(db *gorm.DB) *statusMySQL {
	return &statusMySQL{db: db}
}

// Create persists a new status to the database.
func (r *statusMySQL) Create(ctx context.Context, status *entity.Status) error {
	return r.db.WithContext(ctx).Create(status).Error
}

// FindByID retrieves a status by its ID.
// It returns usecase.ErrStatusNotFound if no row matches.
func (r *statusMySQL) FindByID(ctx context.Context, id uint) (*entity.Status, error) {
	var status entity.Status
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}

// Delete removes a status by its ID.
func (r *statusMySQL) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Status{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrStatusNotFound
	}
	return nil
}

// ListByUserID retrieves one page of a user's statuses, newest first.
func (r *statusMySQL) ListByUserID(ctx context.Context, userID uint, offset, limit int) ([]entity.Status, error) {
	var statuses []entity.Status
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// CountByUserID returns the number of statuses owned by a user.
func (r *statusMySQL) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Status{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListByUserIDs retrieves one page of statuses owned by any of the given
// users, newest first, with the owning user preloaded. This is the feed
// query: a single SELECT with an IN clause, so the read is consistent.
func (r *statusMySQL) ListByUserIDs(ctx context.Context, userIDs []uint, offset, limit int) ([]entity.Status, error) {
	var statuses []entity.Status
	if len(userIDs) == 0 {
		return statuses, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}

// CountByUserIDs returns the number of statuses owned by any of the given users.
func (r *statusMySQL) CountByUserIDs(ctx context.Context, userIDs []uint) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Status{}).
		Where("user_id IN ?", userIDs).
		Count(&count).Error
	return count, err
}
