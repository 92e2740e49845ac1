// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "agrilink/internal/delivery/context"
	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/repository"
	"agrilink/internal/domain/service"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	authRepo          repository.AuthRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	roleUsecase       usecase.RoleUsecase
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	AuthRepo          repository.AuthRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	RoleUsecase       usecase.RoleUsecase
	Logger            *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		authRepo:          params.AuthRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		roleUsecase:       params.RoleUsecase,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete registration process: account creation,
// role resolution, and profile provisioning.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email), slog.String("requestedRole", input.RequestedRole))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	// A brand-new account has no profile rows yet, so only the explicit
	// hint can resolve the role at this point.
	role, _ := entity.ParseRole(input.RequestedRole)

	var newUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()
		authRepo := repoFactory.NewAuthRepository()

		_, findErr := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email)
		if findErr == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}
		if !errors.Is(findErr, repository.ErrAuthNotFound) {
			return errors.Wrap(findErr, "failed to find authentication")
		}

		newUser = &entity.User{
			Email:    input.Email,
			FullName: input.FullName,
			UserType: role,
			Language: input.Language,
		}
		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			return errors.Wrap(createErr, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: input.Email,
			PasswordHash:   hashedPassword,
		}
		if createErr := authRepo.CreateAuthentication(ctx, newAuth); createErr != nil {
			return errors.Wrap(createErr, "failed to create authentication during registration")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	return srv.finishAuth(ctx, newUser, input.RequestedRole, nil)
}

// Login orchestrates the user login process.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	// bcrypt is CPU-bound; keep it outside any transaction.
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	user, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user during login")
	}

	return srv.finishAuth(ctx, user, "", nil)
}

// GoogleSignIn handles login or registration via a Google ID token.
func (srv *userService) GoogleSignIn(ctx context.Context, input usecase.GoogleSignInInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Handling Google sign-in")

	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrOAuthTokenInvalid, "failed to verify Google ID token")
	}

	user, err := srv.findOrCreateGoogleUser(ctx, oauthUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to handle Google user authentication")
	}

	return srv.finishAuth(ctx, user, input.RequestedRole, oauthUser.Metadata)
}

func (srv *userService) findOrCreateGoogleUser(ctx context.Context, oauthUser *service.OAuthUser) (*entity.User, error) {
	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.NewAuthRepository()
		userRepo := repoFactory.NewUserRepository()

		authRecord, findErr := authRepo.FindAuthentication(ctx, entity.ProviderTypeGoogle, oauthUser.ID)
		if findErr == nil {
			var loadErr error
			user, loadErr = userRepo.FindByID(ctx, authRecord.UserID)

			return errors.Wrap(loadErr, "failed to load existing Google user")
		}
		if !errors.Is(findErr, repository.ErrAuthNotFound) {
			return errors.Wrap(findErr, "failed to find Google authentication")
		}

		srv.log(ctx).Info("Google user not found, creating new user", slog.String("email", oauthUser.Email))

		user = &entity.User{
			Email:    oauthUser.Email,
			FullName: oauthUser.Name,
			Language: oauthUser.Locale,
		}
		if createErr := userRepo.Create(ctx, user); createErr != nil {
			return errors.Wrap(createErr, "failed to create user for Google authentication")
		}

		newAuth := &entity.Authentication{
			UserID:         user.ID,
			Provider:       entity.ProviderTypeGoogle,
			ProviderUserID: oauthUser.ID,
		}

		return errors.Wrap(authRepo.CreateAuthentication(ctx, newAuth), "failed to create Google authentication")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Google authentication transaction")
	}

	return user, nil
}

// finishAuth is the shared tail of every authentication path: resolve the
// role, provision the profile when resolved, issue tokens, and persist the
// refresh token.
func (srv *userService) finishAuth(ctx context.Context, user *entity.User, hint string, metadata map[string]string) (*usecase.AuthOutput, error) {
	identity := entity.Identity{UserID: user.ID, Email: user.Email, Metadata: metadata}

	resolution, err := srv.roleUsecase.ResolveRole(ctx, identity, hint)
	if err != nil {
		// A store hiccup must not block the sign-in. Degrade to manual
		// selection; the client shows the role picker with a retry option.
		srv.log(ctx).Warn("Role resolution degraded to manual selection", slog.Any("userID", user.ID), slog.Any("error", err))
		resolution = usecase.RoleResolution{Role: entity.RoleNone, Source: usecase.SourceUnresolved}
	}

	var profileCreated bool
	if resolution.Resolved() {
		profileCreated, err = srv.roleUsecase.EnsureRoleProfile(ctx, user.ID, resolution.Role)
		if err != nil {
			// The role is already determined; routing proceeds and read
			// repair on the next profile access recreates the missing row.
			srv.log(ctx).Warn("Profile provisioning failed after role resolution", slog.Any("userID", user.ID), slog.Any("role", resolution.Role), slog.Any("error", err))
			profileCreated = false
		}
		user.UserType = resolution.Role
	} else {
		srv.log(ctx).Info("Role unresolved, client must prompt", slog.Any("userID", user.ID))
	}

	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(user.ID, user.UserType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	if err := srv.storeRefreshToken(ctx, user.ID, refreshTokenString); err != nil {
		return nil, errors.Wrap(err, "failed to store refresh token")
	}

	srv.log(ctx).Debug("Authentication completed", slog.Any("userID", user.ID), slog.Any("role", user.UserType), slog.String("source", string(resolution.Source)))

	return &usecase.AuthOutput{
		AccessToken:    accessToken,
		RefreshToken:   refreshTokenString,
		User:           user,
		Role:           resolution.Role,
		RoleResolved:   resolution.Resolved(),
		ProfileCreated: profileCreated,
	}, nil
}

func (srv *userService) storeRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	token := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: srv.tokenService.HashToken(refreshTokenString),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	return errors.Wrap(srv.refreshTokenRepo.CreateRefreshToken(ctx, token), "failed to create refresh token")
}

// Refresh issues a new access token using a refresh token.
// The refresh token remains unchanged for security reasons.
func (srv *userService) Refresh(ctx context.Context, input usecase.RefreshInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	stored, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired")
		}

		return nil, errors.Wrap(err, "failed to look up refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token has expired")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user for token refresh")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.UserType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: input.RefreshToken,
		User:         user,
		Role:         user.UserType,
		RoleResolved: user.UserType != entity.RoleNone,
	}, nil
}

// Logout invalidates a session by deleting its refresh token.
func (srv *userService) Logout(ctx context.Context, refreshToken string) error {
	if _, err := srv.tokenService.ValidateToken(refreshToken); err != nil {
		// Even if the token is invalid, proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(refreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// LogoutAll ends every session of the user.
func (srv *userService) LogoutAll(ctx context.Context, userID string) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "invalid user id")
	}

	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete refresh tokens")
	}
	srv.log(ctx).Info("Logged out from all devices", slog.Any("userID", id))

	return nil
}
