package dto

import (
	"time"

	"microblog_backend/internal/feature/users/domain/entity"
)

// UserItem is the public representation of a user.
// The email address itself is never exposed, only its Gravatar hash.
type UserItem struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Gravatar  string    `json:"gravatar"`
	CreatedAt time.Time `json:"created_at"`
}

// UserItemFromEntity converts a user entity to its public representation.
func UserItemFromEntity(u *entity.User) UserItem {
	return UserItem{
		ID:        u.ID,
		Name:      u.Name,
		Gravatar:  u.Gravatar(100),
		CreatedAt: u.CreatedAt,
	}
}

// UserItemsFromEntities converts a slice of user entities.
func UserItemsFromEntities(users []entity.User) []UserItem {
	out := make([]UserItem, 0, len(users))
	for i := range users {
		out = append(out, UserItemFromEntity(&users[i]))
	}
	return out
}
