// Package dto defines data transfer objects for the statuses feature's HTTP transport layer.
package dto

import (
	"time"

	"microblog_backend/internal/feature/statuses/domain/entity"
	userdto "microblog_backend/internal/feature/users/transport/http/dto"
)

// StatusItem is the response representation of one status.
// User is only populated on feed responses, where the owner is preloaded.
type StatusItem struct {
	ID        uint              `json:"id"`
	Content   string            `json:"content"`
	UserID    uint              `json:"user_id"`
	User      *userdto.UserItem `json:"user,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// StatusItemFromEntity converts a status entity without its owner.
func StatusItemFromEntity(s entity.Status) StatusItem {
	return StatusItem{
		ID:        s.ID,
		Content:   s.Content,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt,
	}
}

// FeedItemFromEntity converts a status entity including its preloaded owner.
func FeedItemFromEntity(s entity.Status) StatusItem {
	item := StatusItemFromEntity(s)
	user := userdto.UserItemFromEntity(&s.User)
	item.User = &user
	return item
}
