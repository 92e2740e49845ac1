// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for role profile persistence.
var (
	// ErrProfileNotFound is returned when no role profile row exists for a user.
	ErrProfileNotFound = errors.New("role profile not found")
	// ErrProfileExists is returned when a profile insert hits the unique
	// constraint, meaning a concurrent request created the row first.
	ErrProfileExists = errors.New("role profile already exists")
)

// ProfileRepository defines persistence for the six role profile tables.
// Each role has its own table keyed by user ID; profile existence is what
// the role resolver treats as the source of truth.
type ProfileRepository interface {
	// HasRoleProfile reports whether a profile row of the given role exists
	// for the user.
	HasRoleProfile(ctx context.Context, userID uuid.UUID, role entity.Role) (bool, error)

	// FindRoleByProfile scans the role profile tables for the user and
	// returns the role whose table holds a row, or RoleNone when none does.
	FindRoleByProfile(ctx context.Context, userID uuid.UUID) (entity.Role, error)

	// CreateDefaultProfile inserts an empty profile row of the given role
	// for the user. A unique constraint violation means another request won
	// the race; callers treat that as success.
	CreateDefaultProfile(ctx context.Context, userID uuid.UUID, role entity.Role) error

	FindFarmerProfile(ctx context.Context, userID uuid.UUID) (*entity.FarmerProfile, error)
	FindStoreProfile(ctx context.Context, userID uuid.UUID) (*entity.StoreProfile, error)
	FindBrokerProfile(ctx context.Context, userID uuid.UUID) (*entity.BrokerProfile, error)
	FindExpertProfile(ctx context.Context, userID uuid.UUID) (*entity.ExpertProfile, error)
	FindStudentProfile(ctx context.Context, userID uuid.UUID) (*entity.StudentProfile, error)
	FindConsumerProfile(ctx context.Context, userID uuid.UUID) (*entity.ConsumerProfile, error)

	UpdateFarmerProfile(ctx context.Context, profile *entity.FarmerProfile) error
	UpdateStoreProfile(ctx context.Context, profile *entity.StoreProfile) error
	UpdateBrokerProfile(ctx context.Context, profile *entity.BrokerProfile) error
	UpdateExpertProfile(ctx context.Context, profile *entity.ExpertProfile) error
	UpdateStudentProfile(ctx context.Context, profile *entity.StudentProfile) error
	UpdateConsumerProfile(ctx context.Context, profile *entity.ConsumerProfile) error

	// ListBrokerProfiles returns every broker profile. Used for market
	// discovery; broker counts stay small enough to list in full.
	ListBrokerProfiles(ctx context.Context) ([]*entity.BrokerProfile, error)

	// FindLocations returns the display location string per user for the
	// given role, keyed by user ID. Missing users are absent from the map.
	FindLocations(ctx context.Context, role entity.Role, ids []uuid.UUID) (map[uuid.UUID]string, error)
}
