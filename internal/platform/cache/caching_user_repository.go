// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"microblog_backend/internal/feature/users/domain/entity"
	"microblog_backend/internal/feature/users/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching of
// FindByID lookups. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
// Writes go to the inner repository first and then drop the cached entry,
// so readers never see a profile newer than the database.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingUserRepository implements UserRepository.
var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cacheKey generates the cache key for a user ID.
func (c *CachingUserRepository) cacheKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

// invalidate drops the cached entry for a user ID. Best effort.
func (c *CachingUserRepository) invalidate(ctx context.Context, id uint) {
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(id)).Err()
	}
}

// FindByID retrieves a user, checking cache first then falling back to the database.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Create inserts a user. Nothing can be cached for the ID yet, so no invalidation.
func (c *CachingUserRepository) Create(ctx context.Context, user *entity.User) error {
	return c.inner.Create(ctx, user)
}

// Update saves a user and invalidates the cached entry.
func (c *CachingUserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := c.inner.Update(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx, user.ID)
	return nil
}

// Delete removes a user and invalidates the cached entry.
func (c *CachingUserRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// FindByName passes through uncached; it only backs uniqueness checks.
func (c *CachingUserRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	return c.inner.FindByName(ctx, name)
}

// FindByEmail passes through uncached; credentials must always be fresh.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// FindByActivationToken passes through uncached; tokens are single-use.
func (c *CachingUserRepository) FindByActivationToken(ctx context.Context, token string) (*entity.User, error) {
	return c.inner.FindByActivationToken(ctx, token)
}

// List passes through uncached.
func (c *CachingUserRepository) List(ctx context.Context, offset, limit int) ([]entity.User, error) {
	return c.inner.List(ctx, offset, limit)
}

// Count passes through uncached.
func (c *CachingUserRepository) Count(ctx context.Context) (int64, error) {
	return c.inner.Count(ctx)
}
