// Package google verifies Google ID tokens for the sign-in flow.
package google

import (
	"context"
	"log/slog"

	"agrilink/config"
	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/service"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// AuthServiceImpl implements service.OAuthAuthService for Google Sign-In.
type AuthServiceImpl struct {
	clientID string
	logger   *slog.Logger
}

// NewAuthService creates a new Google AuthService
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	var clientID string
	if cfg.GoogleOAuth != nil {
		clientID = cfg.GoogleOAuth.ClientID
	}

	return &AuthServiceImpl{
		clientID: clientID,
		logger:   logger,
	}
}

// VerifyIDToken validates the ID token's signature and claims against
// Google's certificates and converts the payload into an OAuthUser.
func (s *AuthServiceImpl) VerifyIDToken(ctx context.Context, idTokenString string) (*service.OAuthUser, error) {
	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		s.logger.Warn("Google ID token validation failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "invalid Google ID token")
	}

	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, errors.New("email not verified")
	}

	oauthUser := &service.OAuthUser{
		ID:            payload.Subject,
		Email:         claimString(payload, "email"),
		Name:          claimString(payload, "name"),
		Provider:      entity.ProviderTypeGoogle,
		AvatarURL:     claimString(payload, "picture"),
		EmailVerified: true,
		Locale:        claimString(payload, "locale"),
		Metadata:      map[string]string{},
	}
	for _, key := range []string{"given_name", "family_name", "hd", "role"} {
		if value := claimString(payload, key); value != "" {
			oauthUser.Metadata[key] = value
		}
	}

	s.logger.Debug("Google ID token verified",
		slog.String("userID", oauthUser.ID),
		slog.String("email", oauthUser.Email))

	return oauthUser, nil
}

// GetProvider returns the OAuth provider type
func (s *AuthServiceImpl) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

func claimString(payload *idtoken.Payload, key string) string {
	value, _ := payload.Claims[key].(string)

	return value
}
