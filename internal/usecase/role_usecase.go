// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
)

// ResolutionSource records which step of the resolver produced the role.
type ResolutionSource string

const (
	// SourceUserRecord means the stored role on the user row decided it.
	SourceUserRecord ResolutionSource = "user_record"
	// SourceProfile means an existing role profile row decided the role.
	SourceProfile ResolutionSource = "profile"
	// SourceHint means the client's explicit role hint decided it.
	SourceHint ResolutionSource = "hint"
	// SourceMetadata means provider metadata (e.g. a stored claim) decided it.
	SourceMetadata ResolutionSource = "metadata"
	// SourceUnresolved means no step produced a role; the client must prompt.
	SourceUnresolved ResolutionSource = "unresolved"
)

// RoleResolution is the outcome of running the resolver for one identity.
type RoleResolution struct {
	Role   entity.Role // RoleNone when Source is SourceUnresolved.
	Source ResolutionSource
}

// Resolved reports whether the resolution carries a usable role.
func (r RoleResolution) Resolved() bool {
	return r.Source != SourceUnresolved && r.Role != entity.RoleNone
}

// RoleUsecase defines role resolution and role profile provisioning.
// Resolution is ordered: the stored role on the user row always wins, then an
// existing profile row, then the explicit hint, then provider metadata;
// anything else is unresolved. Provisioning is idempotent and tolerates
// concurrent duplicate requests.
type RoleUsecase interface {
	// ResolveRole determines the identity's role without side effects. When
	// the store is unreachable it returns an unresolved resolution together
	// with a retryable error; callers degrade to manual selection.
	ResolveRole(ctx context.Context, identity entity.Identity, hint string) (RoleResolution, error)

	// EnsureRoleProfile guarantees a profile row of the given role exists for
	// the user, creating an empty one when absent. Returns whether this call
	// created it; losing a creation race reports created=false with no error.
	EnsureRoleProfile(ctx context.Context, userID uuid.UUID, role entity.Role) (created bool, err error)

	// SelectRole records a role the user picked manually after an unresolved
	// sign-in, provisioning the profile row. Fails with ErrRoleAlreadySet when
	// the user already has a different role.
	SelectRole(ctx context.Context, userID uuid.UUID, role entity.Role) error
}
