// Package entity defines the domain entities for the follows feature.
package entity

import "time"

// Follow is one directed edge in the follow graph: the follower follows
// the followed user. A follows B does not imply B follows A.
// The (follower_id, followed_id) pair is unique; a duplicate follow call
// must not create a second row.
type Follow struct {
	ID uint `gorm:"primaryKey"`

	// FollowerID is the user issuing the follow.
	FollowerID uint `gorm:"index;uniqueIndex:idx_follower_followed;not null"`

	// FollowedID is the user being followed.
	FollowedID uint `gorm:"index;uniqueIndex:idx_follower_followed;not null"`

	CreatedAt time.Time
}

// TableName keeps the original followers table name.
func (Follow) TableName() string {
	return "followers"
}
