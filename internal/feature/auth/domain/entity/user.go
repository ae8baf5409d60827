// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Provider identifies where an account's credentials live.
type Provider string

const (
	// ProviderLocal is an email/password account.
	ProviderLocal Provider = "local"

	// ProviderGoogle is an account created from a verified Google identity.
	// Google accounts carry no local password hash.
	ProviderGoogle Provider = "google"
)

// Role values. A single role enum is the canonical authorization
// representation across the whole system.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user in the system.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Name is the display name.
	Name string `gorm:"size:255;not null"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash for local accounts and empty for
	// federated ones. This should never store plaintext passwords and
	// is never serialized into a response.
	Password string `gorm:"size:255" json:"-"`

	// Provider records the identity origin.
	Provider Provider `gorm:"size:16;not null;default:'local'"`

	// Role is the authorization role, "user" or "admin".
	Role string `gorm:"size:16;not null;default:'user'"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
