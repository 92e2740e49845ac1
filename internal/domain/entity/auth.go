// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType names an authentication provider.
type ProviderType = string

// Authentication provider types. One account may carry several credentials,
// e.g. an email/password record plus a linked Google account.
const (
	ProviderTypeEmail  ProviderType = "email"
	ProviderTypeGoogle ProviderType = "google"
)

// Authentication represents a single method of logging in (a credential).
type Authentication struct {
	ID             uuid.UUID // Unique ID of this credential record.
	UserID         uuid.UUID // The account this credential belongs to.
	Provider       string    // "email" or "google".
	ProviderUserID string    // External subject (Google 'sub') or the email itself.
	PasswordHash   string    // bcrypt hash; only set for the email provider.
	CreatedAt      time.Time
}

// RefreshToken represents a long-lived, authorized user session.
// Only a SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Identity is what the authentication layer hands to the role resolver:
// a verified account plus whatever claims the provider supplied.
// Metadata may carry a "role" field from signup-time provider metadata.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Metadata map[string]string
}
