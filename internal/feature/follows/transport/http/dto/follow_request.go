// Package dto defines data transfer objects for the follows feature's HTTP transport layer.
package dto

// FollowReq is the optional request body for the follow/unfollow endpoints.
// The :id path parameter is always a target; UserIDs adds further targets
// so one call can follow or unfollow several users at once.
type FollowReq struct {
	UserIDs []uint `json:"user_ids"`
}
