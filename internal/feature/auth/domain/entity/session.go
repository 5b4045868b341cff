// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Session represents one refresh-token session for a logged-in user.
// The ID doubles as the refresh token value (64-character hex string).
type Session struct {
	ID        string     // Refresh token value
	UserID    uint       // Owning user
	UserAgent string     // Client's User-Agent header
	IPAddress string     // Client's IP address
	CreatedAt time.Time  // Session creation time
	ExpiresAt time.Time  // Session expiration time
	RevokedAt *time.Time // Revocation time (nil if active)
}

// IsValid returns true if the session is neither expired nor revoked.
func (s *Session) IsValid() bool {
	return s.RevokedAt == nil && time.Now().Before(s.ExpiresAt)
}
