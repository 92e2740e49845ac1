// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"agrilink/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user with email
// and password. RequestedRole is the optional explicit role hint; when empty
// the resolver falls back to provider metadata or leaves the role unresolved.
type RegisterInput struct {
	FullName      string
	Email         string
	Password      string
	Language      string
	RequestedRole string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// GoogleSignInInput carries a Google ID token from the client plus an
// optional role hint chosen on the sign-in screen.
type GoogleSignInInput struct {
	IDToken       string
	RequestedRole string
}

// RefreshInput carries the refresh token presented for rotation.
type RefreshInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// AuthOutput returns the session tokens and the resolved account state after
// any successful authentication path.
type AuthOutput struct {
	AccessToken    string
	RefreshToken   string
	User           *entity.User
	Role           entity.Role
	RoleResolved   bool // False when the client must prompt for a role.
	ProfileCreated bool // True when this call provisioned the role profile row.
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)
	GoogleSignIn(ctx context.Context, input GoogleSignInInput) (*AuthOutput, error)
	Refresh(ctx context.Context, input RefreshInput) (*AuthOutput, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID string) error
}
