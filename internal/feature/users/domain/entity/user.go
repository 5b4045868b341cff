// Package entity defines the domain entities for the users feature.
package entity

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user in the system.
// It contains authentication credentials, activation state and profile metadata.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Name is the user's display name. It must be unique across all users.
	Name string `gorm:"uniqueIndex;size:50;not null"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the hashed password for the user.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Activated reports whether the user has confirmed their email address.
	// A freshly registered user is always unactivated.
	Activated bool `gorm:"not null;default:false"`

	// ActivationToken is the single-use email confirmation token.
	// It is generated at construction time and cleared when consumed.
	ActivationToken *string `gorm:"size:64;uniqueIndex"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// NewUser constructs an unactivated user with a freshly generated
// activation token. The token is part of the initial state so the
// persistence layer never has to synthesize it in a lifecycle hook.
func NewUser(name, email, passwordHash string) *User {
	token := uuid.NewString()
	return &User{
		Name:            name,
		Email:           email,
		Password:        passwordHash,
		Activated:       false,
		ActivationToken: &token,
	}
}

// Activate marks the email address as confirmed and consumes the token.
// Calling it twice is harmless; the token stays cleared.
func (u *User) Activate() {
	u.Activated = true
	u.ActivationToken = nil
}

// Gravatar returns the Gravatar avatar URL for the user's email address.
func (u *User) Gravatar(size int) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(u.Email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d", hash, size)
}
