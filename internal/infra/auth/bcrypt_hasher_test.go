package auth

import (
	"testing"

	"agrilink/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, hasher.Check("s3cret-password", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
}

func TestBcryptHasher_DefaultsCostWhenOutOfRange(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 99}}
	hasher := NewBcryptHasher(cfg).(*bcryptHasher)

	assert.Equal(t, bcrypt.DefaultCost, hasher.cost)
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	strict := &config.PasswordStrengthConfig{
		MinLength:        10,
		MaxLength:        64,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	}

	tests := []struct {
		name     string
		strength *config.PasswordStrengthConfig
		password string
		wantErr  bool
	}{
		{name: "default policy accepts 8 chars", password: "abcdefgh"},
		{name: "default policy rejects short", password: "short", wantErr: true},
		{name: "strict accepts compliant", strength: strict, password: "Abcdef123!xy"},
		{name: "strict rejects short", strength: strict, password: "Ab1!x", wantErr: true},
		{name: "strict rejects no uppercase", strength: strict, password: "abcdef123!xy", wantErr: true},
		{name: "strict rejects no lowercase", strength: strict, password: "ABCDEF123!XY", wantErr: true},
		{name: "strict rejects no digit", strength: strict, password: "Abcdefgh!xyz", wantErr: true},
		{name: "strict rejects no special", strength: strict, password: "Abcdef123xyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewBcryptHasher(&config.Config{PasswordStrength: tt.strength})

			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
