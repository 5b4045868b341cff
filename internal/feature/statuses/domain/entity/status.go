// Package entity defines the domain entities for the statuses feature.
package entity

import (
	"time"

	userentity "microblog_backend/internal/feature/users/domain/entity"
)

// MaxContentLength is the maximum status length in characters, not bytes.
const MaxContentLength = 140

// Status represents a single microblog post.
// Content is immutable after creation; there is no edit operation.
type Status struct {
	// ID is the unique identifier for the status.
	ID uint `gorm:"primaryKey"`

	// Content is the post body, at most 140 characters.
	Content string `gorm:"size:140;not null"`

	// UserID is the owning user. Every status has exactly one owner.
	UserID uint `gorm:"index;not null"`

	// User is the owning user, preloaded for feed rendering.
	User userentity.User `gorm:"foreignKey:UserID"`

	// CreatedAt is the timestamp when the status was posted.
	CreatedAt time.Time
}
