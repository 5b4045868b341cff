// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

// RegisterReq represents the request body for the POST /users endpoint.
// Field checks live in the usecase so every violation comes back in one
// field-level error map rather than failing on the first binding tag.
type RegisterReq struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}
