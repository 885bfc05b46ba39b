// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Session is a refresh token issued to one client of a user.
type Session struct {
	ID        string     `json:"id"` // the refresh token itself, 64 hex chars
	UserID    uint       `json:"userId"`
	UserAgent string     `json:"userAgent"`
	IPAddress string     `json:"ipAddress"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Revoked reports whether the session was revoked.
func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// Active reports whether the session can still be exchanged for tokens at now.
func (s *Session) Active(now time.Time) bool {
	return !s.Revoked() && !s.Expired(now)
}
