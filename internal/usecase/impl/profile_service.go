// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sort"

	deliverycontext "agrilink/internal/delivery/context"
	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/repository"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	roleUsecase usecase.RoleUsecase
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo    repository.UserRepository
	ProfileRepo repository.ProfileRepository
	RoleUsecase usecase.RoleUsecase
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo:    params.UserRepo,
		profileRepo: params.ProfileRepo,
		roleUsecase: params.RoleUsecase,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the user with their role profile. A role on the user
// row without a matching profile row is repaired in place, so a read after
// a half-completed provisioning still comes back whole.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user not found")
		}

		return nil, errors.Wrap(err, "failed to load user")
	}

	output := &usecase.ProfileOutput{User: user}

	role := user.UserType
	if role == entity.RoleNone {
		// The role column may lag behind a provisioned profile row.
		resolution, resolveErr := srv.roleUsecase.ResolveRole(ctx, entity.Identity{UserID: userID, Email: user.Email}, "")
		if resolveErr != nil {
			return nil, errors.Wrap(resolveErr, "failed to resolve role for profile read")
		}
		if !resolution.Resolved() {
			return output, nil
		}
		role = resolution.Role
		user.UserType = role
	}

	if err := srv.attachProfile(ctx, output, userID, role); err != nil {
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, err
		}

		// Read repair: the role says a profile should exist but the row is
		// missing. Provision it and fetch again.
		srv.log(ctx).Info("Repairing missing role profile", slog.Any("userID", userID), slog.Any("role", role))
		if _, ensureErr := srv.roleUsecase.EnsureRoleProfile(ctx, userID, role); ensureErr != nil {
			return nil, errors.Wrap(ensureErr, "failed to repair missing role profile")
		}
		output.Repaired = true

		if err := srv.attachProfile(ctx, output, userID, role); err != nil {
			return nil, errors.Wrap(err, "failed to load repaired role profile")
		}
	}

	return output, nil
}

func (srv *profileService) attachProfile(ctx context.Context, output *usecase.ProfileOutput, userID uuid.UUID, role entity.Role) error {
	var err error
	switch role {
	case entity.RoleFarmer:
		output.Farmer, err = srv.profileRepo.FindFarmerProfile(ctx, userID)
	case entity.RoleStoreOwner:
		output.Store, err = srv.profileRepo.FindStoreProfile(ctx, userID)
	case entity.RoleBroker:
		output.Broker, err = srv.profileRepo.FindBrokerProfile(ctx, userID)
	case entity.RoleExpert:
		output.Expert, err = srv.profileRepo.FindExpertProfile(ctx, userID)
	case entity.RoleStudent:
		output.Student, err = srv.profileRepo.FindStudentProfile(ctx, userID)
	case entity.RoleConsumer:
		output.Consumer, err = srv.profileRepo.FindConsumerProfile(ctx, userID)
	default:
		return errors.Wrap(domainerrors.ErrInvalidRole, "unknown role on profile read")
	}

	return err
}

// UpdateFarmerProfile applies the provided fields to the farmer profile.
func (srv *profileService) UpdateFarmerProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateFarmerProfileInput) error {
	profile, err := srv.profileRepo.FindFarmerProfile(ctx, userID)
	if err != nil {
		return srv.wrapProfileErr(err, "farmer")
	}

	if input.FarmLocation != nil {
		profile.FarmLocation = *input.FarmLocation
	}
	if input.Latitude != nil {
		profile.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		profile.Longitude = *input.Longitude
	}
	if input.CropsGrown != nil {
		profile.CropsGrown = *input.CropsGrown
	}
	if input.LandAcres != nil {
		profile.LandAcres = *input.LandAcres
	}

	return errors.Wrap(srv.profileRepo.UpdateFarmerProfile(ctx, profile), "failed to update farmer profile")
}

// UpdateStoreProfile applies the provided fields to the store profile.
func (srv *profileService) UpdateStoreProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateStoreProfileInput) error {
	profile, err := srv.profileRepo.FindStoreProfile(ctx, userID)
	if err != nil {
		return srv.wrapProfileErr(err, "store")
	}

	if input.StoreName != nil {
		profile.StoreName = *input.StoreName
	}
	if input.GSTNumber != nil {
		profile.GSTNumber = *input.GSTNumber
	}
	if input.StoreLocation != nil {
		profile.StoreLocation = *input.StoreLocation
	}
	if input.Latitude != nil {
		profile.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		profile.Longitude = *input.Longitude
	}

	return errors.Wrap(srv.profileRepo.UpdateStoreProfile(ctx, profile), "failed to update store profile")
}

// UpdateBrokerProfile applies the provided fields to the broker profile.
func (srv *profileService) UpdateBrokerProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateBrokerProfileInput) error {
	profile, err := srv.profileRepo.FindBrokerProfile(ctx, userID)
	if err != nil {
		return srv.wrapProfileErr(err, "broker")
	}

	if input.MarketName != nil {
		profile.MarketName = *input.MarketName
	}
	if input.LicenseNumber != nil {
		profile.LicenseNumber = *input.LicenseNumber
	}
	if input.CommissionPercent != nil {
		profile.CommissionPercent = *input.CommissionPercent
	}
	if input.Latitude != nil {
		profile.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		profile.Longitude = *input.Longitude
	}

	return errors.Wrap(srv.profileRepo.UpdateBrokerProfile(ctx, profile), "failed to update broker profile")
}

// UpdateExpertProfile applies the provided fields to the expert profile.
func (srv *profileService) UpdateExpertProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateExpertProfileInput) error {
	profile, err := srv.profileRepo.FindExpertProfile(ctx, userID)
	if err != nil {
		return srv.wrapProfileErr(err, "expert")
	}

	if input.Specialization != nil {
		profile.Specialization = *input.Specialization
	}
	if input.Qualification != nil {
		profile.Qualification = *input.Qualification
	}
	if input.YearsExperience != nil {
		profile.YearsExperience = *input.YearsExperience
	}

	return errors.Wrap(srv.profileRepo.UpdateExpertProfile(ctx, profile), "failed to update expert profile")
}

// UpdateStudentProfile applies the provided fields to the student profile.
func (srv *profileService) UpdateStudentProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateStudentProfileInput) error {
	profile, err := srv.profileRepo.FindStudentProfile(ctx, userID)
	if err != nil {
		return srv.wrapProfileErr(err, "student")
	}

	if input.Institution != nil {
		profile.Institution = *input.Institution
	}
	if input.Course != nil {
		profile.Course = *input.Course
	}
	if input.YearOfStudy != nil {
		profile.YearOfStudy = *input.YearOfStudy
	}

	return errors.Wrap(srv.profileRepo.UpdateStudentProfile(ctx, profile), "failed to update student profile")
}

// UpdateConsumerProfile applies the provided fields to the consumer profile.
func (srv *profileService) UpdateConsumerProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateConsumerProfileInput) error {
	profile, err := srv.profileRepo.FindConsumerProfile(ctx, userID)
	if err != nil {
		return srv.wrapProfileErr(err, "consumer")
	}

	if input.DeliveryAddress != nil {
		profile.DeliveryAddress = *input.DeliveryAddress
	}
	if input.PreferredLanguage != nil {
		profile.PreferredLanguage = *input.PreferredLanguage
	}

	return errors.Wrap(srv.profileRepo.UpdateConsumerProfile(ctx, profile), "failed to update consumer profile")
}

func (srv *profileService) wrapProfileErr(err error, role string) error {
	if errors.Is(err, repository.ErrProfileNotFound) {
		return errors.Wrapf(domainerrors.ErrProfileNotFound, "%s profile not found", role)
	}

	return errors.Wrapf(err, "failed to load %s profile", role)
}

// NearbyMarkets lists broker markets within radiusKm of the coordinates,
// nearest first. Brokers without coordinates are skipped.
func (srv *profileService) NearbyMarkets(ctx context.Context, lat, lng, radiusKm float64) ([]*usecase.MarketOutput, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "invalid coordinates")
	}
	if radiusKm <= 0 {
		radiusKm = 50
	}

	brokers, err := srv.profileRepo.ListBrokerProfiles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list broker profiles")
	}

	origin := orb.Point{lng, lat}
	markets := make([]*usecase.MarketOutput, 0, len(brokers))
	for _, broker := range brokers {
		if broker.Latitude == 0 && broker.Longitude == 0 {
			continue
		}
		distanceKm := geo.DistanceHaversine(origin, orb.Point{broker.Longitude, broker.Latitude}) / 1000
		if distanceKm > radiusKm {
			continue
		}
		markets = append(markets, &usecase.MarketOutput{
			BrokerID:   broker.UserID,
			MarketName: broker.MarketName,
			Latitude:   broker.Latitude,
			Longitude:  broker.Longitude,
			DistanceKm: distanceKm,
		})
	}

	sort.Slice(markets, func(i, j int) bool {
		return markets[i].DistanceKm < markets[j].DistanceKm
	})

	return markets, nil
}
