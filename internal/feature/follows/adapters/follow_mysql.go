// Package adapters provides repository implementations for the follows feature.
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"microblog_backend/internal/feature/follows/domain/entity"
	"microblog_backend/internal/feature/follows/usecase"
	userentity "microblog_backend/internal/feature/users/domain/entity"
)

// followMySQL is a MySQL implementation of the FollowRepository interface.
type followMySQL struct {
	db *gorm.DB
}

// Compile-time check to ensure followMySQL implements FollowRepository.
var _ usecase.FollowRepository = (*followMySQL)(nil)

// NewFollowMySQL creates a new instance of followMySQL.
func NewFollowMySQL(db *gorm.DB) *followMySQL {
	return &followMySQL{db: db}
}

// CreateIgnoreDuplicates inserts edges, silently skipping pairs that already
// exist. The unique key on (follower_id, followed_id) plus ON CONFLICT DO
// NOTHING makes concurrent duplicate follows race-free without retries.
func (r *followMySQL) CreateIgnoreDuplicates(ctx context.Context, edges []entity.Follow) error {
	if len(edges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edges).Error
}

// Delete removes matching edges. Absent edges are a no-op, not an error.
func (r *followMySQL) Delete(ctx context.Context, followerID uint, followedIDs []uint) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id IN ?", followerID, followedIDs).
		Delete(&entity.Follow{}).Error
}

// Exists reports whether the directed edge follower -> followed is present.
func (r *followMySQL) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowingIDs returns the IDs of every user the given user follows.
func (r *followMySQL) ListFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followed_id", &ids).Error
	return ids, err
}

// ListFollowings retrieves one page of the users the given user follows.
// One edge table, two indexed lookup directions: this is the followed side.
func (r *followMySQL) ListFollowings(ctx context.Context, userID uint, offset, limit int) ([]userentity.User, error) {
	var users []userentity.User
	err := r.db.WithContext(ctx).
		Model(&userentity.User{}).
		Joins("JOIN followers ON followers.followed_id = users.id").
		Where("followers.follower_id = ?", userID).
		Order("followers.created_at ASC, users.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountFollowings returns how many users the given user follows.
func (r *followMySQL) CountFollowings(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListFollowers retrieves one page of the users following the given user.
func (r *followMySQL) ListFollowers(ctx context.Context, userID uint, offset, limit int) ([]userentity.User, error) {
	var users []userentity.User
	err := r.db.WithContext(ctx).
		Model(&userentity.User{}).
		Joins("JOIN followers ON followers.follower_id = users.id").
		Where("followers.followed_id = ?", userID).
		Order("followers.created_at ASC, users.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountFollowers returns how many users follow the given user.
func (r *followMySQL) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Follow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	return count, err
}
