// Package entity defines the domain entities for the users feature.
package entity

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered user in the system.
type User struct {
	ID    uint
	Name  string
	Email string

	// Password is the bcrypt hash. It is empty for accounts created through Google sign-in.
	Password string

	Role Role

	// GoogleID links the account to a Google identity once the user signs in with Google.
	GoogleID *string

	// LastLogin is nil until the first successful login.
	LastLogin *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// InactiveSince reports whether the user has not logged in since cutoff.
// Users who never logged in count from their creation time.
func (u *User) InactiveSince(cutoff time.Time) bool {
	if u.LastLogin != nil {
		return u.LastLogin.Before(cutoff)
	}
	return u.CreatedAt.Before(cutoff)
}
