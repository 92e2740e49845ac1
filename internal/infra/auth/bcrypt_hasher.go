// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"agrilink/config"
	"agrilink/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost     int
	strength *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	var strength *config.PasswordStrengthConfig
	if cfg != nil {
		strength = cfg.PasswordStrength
	}

	return &bcryptHasher{cost: cost, strength: strength}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), errors.Wrap(err, "bcrypt generate")
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
// Without configuration only a minimum length of 8 is enforced.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	minLength := 8
	maxLength := 72 // bcrypt truncates beyond 72 bytes
	if h.strength != nil {
		if h.strength.MinLength > 0 {
			minLength = h.strength.MinLength
		}
		if h.strength.MaxLength > 0 && h.strength.MaxLength < maxLength {
			maxLength = h.strength.MaxLength
		}
	}

	if len(password) < minLength {
		return errors.Errorf("password must be at least %d characters", minLength)
	}
	if len(password) > maxLength {
		return errors.Errorf("password must be at most %d characters", maxLength)
	}

	if h.strength == nil {
		return nil
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if h.strength.RequireUppercase && !hasUpper {
		return errors.New("password must contain an uppercase letter")
	}
	if h.strength.RequireLowercase && !hasLower {
		return errors.New("password must contain a lowercase letter")
	}
	if h.strength.RequireNumbers && !hasNumber {
		return errors.New("password must contain a digit")
	}
	if h.strength.RequireSpecial && !hasSpecial {
		return errors.New("password must contain a special character")
	}

	return nil
}
