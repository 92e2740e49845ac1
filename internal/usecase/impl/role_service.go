// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "agrilink/internal/delivery/context"
	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/repository"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// roleService implements the RoleUsecase interface.
type roleService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	logger      *slog.Logger
}

// RoleServiceParams holds dependencies for RoleService, injected by Fx.
type RoleServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	Logger      *slog.Logger
}

// NewRoleService is the constructor for roleService.
func NewRoleService(params RoleServiceParams) usecase.RoleUsecase {
	return &roleService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		profileRepo: params.ProfileRepo,
		logger:      params.Logger,
	}
}

func (srv *roleService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ResolveRole runs the ordered resolution chain for one identity. The
// stored role on the user row always wins, then an existing profile row;
// the explicit hint comes next, then provider metadata. Each later step
// only runs when the earlier ones produced nothing, so a stale hint can
// never override a stored role. Store failures come back as a retryable
// error alongside an unresolved result, never as a wrong role.
func (srv *roleService) ResolveRole(ctx context.Context, identity entity.Identity, hint string) (usecase.RoleResolution, error) {
	unresolved := usecase.RoleResolution{Role: entity.RoleNone, Source: usecase.SourceUnresolved}

	// 0. Stored role on the user row. The column can be ahead of the
	// profile tables when a provisioning side-write failed; it still
	// decides the role, and read repair recreates the profile row later.
	user, err := srv.userRepo.FindByID(ctx, identity.UserID)
	switch {
	case err == nil:
		if user.UserType != entity.RoleNone {
			return usecase.RoleResolution{Role: user.UserType, Source: usecase.SourceUserRecord}, nil
		}
	case errors.Is(err, repository.ErrUserNotFound):
		// No row yet; the remaining stages still apply.
	default:
		srv.log(ctx).Warn("User row lookup failed during role resolution", slog.Any("userID", identity.UserID), slog.Any("error", err))

		return unresolved, errors.Wrap(domainerrors.ErrStoreUnavailable, "failed to read user row during role resolution")
	}

	// 1. Existing profile row.
	existing, err := srv.profileRepo.FindRoleByProfile(ctx, identity.UserID)
	if err != nil {
		srv.log(ctx).Warn("Role profile scan failed during role resolution", slog.Any("userID", identity.UserID), slog.Any("error", err))

		return unresolved, errors.Wrap(domainerrors.ErrStoreUnavailable, "failed to scan role profiles")
	}
	if existing != entity.RoleNone {
		return usecase.RoleResolution{Role: existing, Source: usecase.SourceProfile}, nil
	}

	// 2. Explicit hint from the client.
	if role, ok := entity.ParseRole(hint); ok {
		return usecase.RoleResolution{Role: role, Source: usecase.SourceHint}, nil
	}
	if hint != "" {
		srv.log(ctx).Warn("Ignoring unrecognized role hint", slog.String("hint", hint), slog.Any("userID", identity.UserID))
	}

	// 3. Provider metadata fallback.
	if role, ok := entity.ParseRole(identity.Metadata["role"]); ok {
		return usecase.RoleResolution{Role: role, Source: usecase.SourceMetadata}, nil
	}

	return usecase.RoleResolution{Role: entity.RoleNone, Source: usecase.SourceUnresolved}, nil
}

// EnsureRoleProfile guarantees the profile row exists. The check-then-insert
// pair races with concurrent sign-ins for the same account; losing the race
// surfaces as a unique constraint violation and is treated as created=false.
func (srv *roleService) EnsureRoleProfile(ctx context.Context, userID uuid.UUID, role entity.Role) (bool, error) {
	if !role.IsValid() {
		return false, errors.Wrap(domainerrors.ErrInvalidRole, "cannot provision profile for invalid role")
	}

	var created bool
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.NewProfileRepository()
		userRepo := repoFactory.NewUserRepository()

		exists, err := profileRepo.HasRoleProfile(ctx, userID, role)
		if err != nil {
			return errors.Wrap(err, "failed to check role profile existence")
		}
		if !exists {
			if err := profileRepo.CreateDefaultProfile(ctx, userID, role); err != nil {
				if errors.Is(err, repository.ErrProfileExists) {
					srv.log(ctx).Debug("Lost profile provisioning race", slog.Any("userID", userID), slog.Any("role", role))
				} else {
					return errors.Wrap(err, "failed to create default role profile")
				}
			} else {
				created = true
			}
		}

		// Keep the role column on the user row in step with the profile
		// table either way; the UPDATE is idempotent.
		if err := userRepo.UpdateUserType(ctx, userID, role); err != nil {
			return errors.Wrap(err, "failed to set user role")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute profile provisioning transaction", slog.Any("userID", userID), slog.Any("role", role), slog.Any("error", err))

		return false, errors.Wrap(err, "failed to execute profile provisioning transaction")
	}

	if created {
		srv.log(ctx).Info("Provisioned role profile", slog.Any("userID", userID), slog.Any("role", role))
	}

	return created, nil
}

// SelectRole records a manual role choice made after an unresolved sign-in.
func (srv *roleService) SelectRole(ctx context.Context, userID uuid.UUID, role entity.Role) error {
	if !role.IsValid() {
		return errors.Wrap(domainerrors.ErrInvalidRole, "cannot select invalid role")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(domainerrors.ErrUserNotFound, "user not found for role selection")
		}

		return errors.Wrap(err, "failed to load user for role selection")
	}

	if user.UserType != entity.RoleNone && user.UserType != role {
		srv.log(ctx).Warn("Rejected role switch attempt", slog.Any("userID", userID), slog.Any("current", user.UserType), slog.Any("requested", role))

		return errors.Wrap(domainerrors.ErrRoleAlreadySet, "account already has a role")
	}

	if _, err := srv.EnsureRoleProfile(ctx, userID, role); err != nil {
		return errors.Wrap(err, "failed to provision profile for selected role")
	}

	return nil
}
