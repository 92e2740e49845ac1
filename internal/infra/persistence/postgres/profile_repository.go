// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/repository"
	"agrilink/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// profileRepository implements the repository.ProfileRepository interface using GORM.
// Each role stores its profile in a dedicated table keyed by user ID.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{
		db: db,
	}
}

// emptyProfileModel returns a zero-value model for the role's table, used
// for table-targeted queries and default row inserts.
func emptyProfileModel(role entity.Role, userID uuid.UUID) any {
	switch role {
	case entity.RoleFarmer:
		return &model.FarmerProfileModel{UserID: userID}
	case entity.RoleStoreOwner:
		return &model.StoreProfileModel{UserID: userID}
	case entity.RoleBroker:
		return &model.BrokerProfileModel{UserID: userID}
	case entity.RoleExpert:
		return &model.ExpertProfileModel{UserID: userID}
	case entity.RoleStudent:
		return &model.StudentProfileModel{UserID: userID}
	case entity.RoleConsumer:
		return &model.ConsumerProfileModel{UserID: userID}
	default:
		return nil
	}
}

// HasRoleProfile reports whether a profile row of the given role exists for the user.
func (repo *profileRepository) HasRoleProfile(ctx context.Context, userID uuid.UUID, role entity.Role) (bool, error) {
	probe := emptyProfileModel(role, userID)
	if probe == nil {
		return false, errors.Errorf("unknown role: %s", role)
	}

	var count int64
	if err := repo.db.WithContext(ctx).
		Model(probe).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "failed to check %s profile", role)
	}

	return count > 0, nil
}

// FindRoleByProfile scans the role profile tables for the user and returns
// the role whose table holds a row, or RoleNone when none does.
func (repo *profileRepository) FindRoleByProfile(ctx context.Context, userID uuid.UUID) (entity.Role, error) {
	for _, role := range entity.AllRoles() {
		exists, err := repo.HasRoleProfile(ctx, userID, role)
		if err != nil {
			return entity.RoleNone, err
		}
		if exists {
			return role, nil
		}
	}

	return entity.RoleNone, nil
}

// CreateDefaultProfile inserts an empty profile row of the given role for
// the user. A unique constraint violation means a concurrent request won
// the race; callers treat ErrProfileExists as success.
func (repo *profileRepository) CreateDefaultProfile(ctx context.Context, userID uuid.UUID, role entity.Role) error {
	row := emptyProfileModel(role, userID)
	if row == nil {
		return errors.Errorf("unknown role: %s", role)
	}

	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrProfileExists
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create default profile")
	}

	return nil
}

// findProfileRow loads one profile row into dest, mapping record-not-found
// to the domain's ErrProfileNotFound.
func (repo *profileRepository) findProfileRow(ctx context.Context, userID uuid.UUID, dest any) error {
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrProfileNotFound
		}

		return errors.Wrap(err, "failed to find profile")
	}

	return nil
}

// saveProfileRow persists a full profile row.
func (repo *profileRepository) saveProfileRow(ctx context.Context, row any) error {
	if err := repo.db.WithContext(ctx).Save(row).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update profile")
	}

	return nil
}

// FindFarmerProfile retrieves the farmer profile for a user.
func (repo *profileRepository) FindFarmerProfile(ctx context.Context, userID uuid.UUID) (*entity.FarmerProfile, error) {
	var profileM model.FarmerProfileModel
	if err := repo.findProfileRow(ctx, userID, &profileM); err != nil {
		return nil, err
	}

	return toFarmerProfileDomain(&profileM), nil
}

// FindStoreProfile retrieves the store profile for a user.
func (repo *profileRepository) FindStoreProfile(ctx context.Context, userID uuid.UUID) (*entity.StoreProfile, error) {
	var profileM model.StoreProfileModel
	if err := repo.findProfileRow(ctx, userID, &profileM); err != nil {
		return nil, err
	}

	return toStoreProfileDomain(&profileM), nil
}

// FindBrokerProfile retrieves the broker profile for a user.
func (repo *profileRepository) FindBrokerProfile(ctx context.Context, userID uuid.UUID) (*entity.BrokerProfile, error) {
	var profileM model.BrokerProfileModel
	if err := repo.findProfileRow(ctx, userID, &profileM); err != nil {
		return nil, err
	}

	return toBrokerProfileDomain(&profileM), nil
}

// FindExpertProfile retrieves the expert profile for a user.
func (repo *profileRepository) FindExpertProfile(ctx context.Context, userID uuid.UUID) (*entity.ExpertProfile, error) {
	var profileM model.ExpertProfileModel
	if err := repo.findProfileRow(ctx, userID, &profileM); err != nil {
		return nil, err
	}

	return toExpertProfileDomain(&profileM), nil
}

// FindStudentProfile retrieves the student profile for a user.
func (repo *profileRepository) FindStudentProfile(ctx context.Context, userID uuid.UUID) (*entity.StudentProfile, error) {
	var profileM model.StudentProfileModel
	if err := repo.findProfileRow(ctx, userID, &profileM); err != nil {
		return nil, err
	}

	return toStudentProfileDomain(&profileM), nil
}

// FindConsumerProfile retrieves the consumer profile for a user.
func (repo *profileRepository) FindConsumerProfile(ctx context.Context, userID uuid.UUID) (*entity.ConsumerProfile, error) {
	var profileM model.ConsumerProfileModel
	if err := repo.findProfileRow(ctx, userID, &profileM); err != nil {
		return nil, err
	}

	return toConsumerProfileDomain(&profileM), nil
}

// UpdateFarmerProfile persists changes to a farmer profile.
func (repo *profileRepository) UpdateFarmerProfile(ctx context.Context, profile *entity.FarmerProfile) error {
	return repo.saveProfileRow(ctx, fromFarmerProfileDomain(profile))
}

// UpdateStoreProfile persists changes to a store profile.
func (repo *profileRepository) UpdateStoreProfile(ctx context.Context, profile *entity.StoreProfile) error {
	return repo.saveProfileRow(ctx, fromStoreProfileDomain(profile))
}

// UpdateBrokerProfile persists changes to a broker profile.
func (repo *profileRepository) UpdateBrokerProfile(ctx context.Context, profile *entity.BrokerProfile) error {
	return repo.saveProfileRow(ctx, fromBrokerProfileDomain(profile))
}

// UpdateExpertProfile persists changes to an expert profile.
func (repo *profileRepository) UpdateExpertProfile(ctx context.Context, profile *entity.ExpertProfile) error {
	return repo.saveProfileRow(ctx, fromExpertProfileDomain(profile))
}

// UpdateStudentProfile persists changes to a student profile.
func (repo *profileRepository) UpdateStudentProfile(ctx context.Context, profile *entity.StudentProfile) error {
	return repo.saveProfileRow(ctx, fromStudentProfileDomain(profile))
}

// UpdateConsumerProfile persists changes to a consumer profile.
func (repo *profileRepository) UpdateConsumerProfile(ctx context.Context, profile *entity.ConsumerProfile) error {
	return repo.saveProfileRow(ctx, fromConsumerProfileDomain(profile))
}

// ListBrokerProfiles returns every broker profile. Broker counts stay small
// enough to list in full for market discovery.
func (repo *profileRepository) ListBrokerProfiles(ctx context.Context) ([]*entity.BrokerProfile, error) {
	var profileModels []*model.BrokerProfileModel

	if err := repo.db.WithContext(ctx).
		Order("market_name ASC").
		Find(&profileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list broker profiles")
	}

	profiles := make([]*entity.BrokerProfile, 0, len(profileModels))
	for _, profileM := range profileModels {
		profiles = append(profiles, toBrokerProfileDomain(profileM))
	}

	return profiles, nil
}

// locationColumn maps a role to the table and column holding its display
// location. Roles without a geographic anchor have no entry.
func locationColumn(role entity.Role) (table, column string, ok bool) {
	switch role {
	case entity.RoleFarmer:
		return "farmer_profiles", "farm_location", true
	case entity.RoleStoreOwner:
		return "store_profiles", "store_location", true
	case entity.RoleBroker:
		return "broker_profiles", "market_name", true
	default:
		return "", "", false
	}
}

// FindLocations returns the display location string per user for the given
// role. Missing users are absent from the map.
func (repo *profileRepository) FindLocations(ctx context.Context, role entity.Role, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	locations := make(map[uuid.UUID]string, len(ids))

	table, column, ok := locationColumn(role)
	if !ok || len(ids) == 0 {
		return locations, nil
	}

	var rows []struct {
		UserID   uuid.UUID
		Location string
	}

	if err := repo.db.WithContext(ctx).
		Table(table).
		Select("user_id, "+column+" AS location").
		Where("user_id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to find %s locations", role)
	}

	for _, row := range rows {
		locations[row.UserID] = row.Location
	}

	return locations, nil
}

// --- Mapper Functions ---

func toFarmerProfileDomain(data *model.FarmerProfileModel) *entity.FarmerProfile {
	if data == nil {
		return nil
	}

	return &entity.FarmerProfile{
		UserID:       data.UserID,
		FarmLocation: data.FarmLocation,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		CropsGrown:   data.CropsGrown,
		LandAcres:    data.LandAcres,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromFarmerProfileDomain(data *entity.FarmerProfile) *model.FarmerProfileModel {
	return &model.FarmerProfileModel{
		UserID:       data.UserID,
		FarmLocation: data.FarmLocation,
		Latitude:     data.Latitude,
		Longitude:    data.Longitude,
		CropsGrown:   data.CropsGrown,
		LandAcres:    data.LandAcres,
		CreatedAt:    data.CreatedAt,
	}
}

func toStoreProfileDomain(data *model.StoreProfileModel) *entity.StoreProfile {
	if data == nil {
		return nil
	}

	return &entity.StoreProfile{
		UserID:        data.UserID,
		StoreName:     data.StoreName,
		GSTNumber:     data.GSTNumber,
		StoreLocation: data.StoreLocation,
		Latitude:      data.Latitude,
		Longitude:     data.Longitude,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromStoreProfileDomain(data *entity.StoreProfile) *model.StoreProfileModel {
	return &model.StoreProfileModel{
		UserID:        data.UserID,
		StoreName:     data.StoreName,
		GSTNumber:     data.GSTNumber,
		StoreLocation: data.StoreLocation,
		Latitude:      data.Latitude,
		Longitude:     data.Longitude,
		CreatedAt:     data.CreatedAt,
	}
}

func toBrokerProfileDomain(data *model.BrokerProfileModel) *entity.BrokerProfile {
	if data == nil {
		return nil
	}

	return &entity.BrokerProfile{
		UserID:            data.UserID,
		MarketName:        data.MarketName,
		LicenseNumber:     data.LicenseNumber,
		CommissionPercent: data.CommissionPercent,
		Latitude:          data.Latitude,
		Longitude:         data.Longitude,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromBrokerProfileDomain(data *entity.BrokerProfile) *model.BrokerProfileModel {
	return &model.BrokerProfileModel{
		UserID:            data.UserID,
		MarketName:        data.MarketName,
		LicenseNumber:     data.LicenseNumber,
		CommissionPercent: data.CommissionPercent,
		Latitude:          data.Latitude,
		Longitude:         data.Longitude,
		CreatedAt:         data.CreatedAt,
	}
}

func toExpertProfileDomain(data *model.ExpertProfileModel) *entity.ExpertProfile {
	if data == nil {
		return nil
	}

	return &entity.ExpertProfile{
		UserID:          data.UserID,
		Specialization:  data.Specialization,
		Qualification:   data.Qualification,
		YearsExperience: data.YearsExperience,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}

func fromExpertProfileDomain(data *entity.ExpertProfile) *model.ExpertProfileModel {
	return &model.ExpertProfileModel{
		UserID:          data.UserID,
		Specialization:  data.Specialization,
		Qualification:   data.Qualification,
		YearsExperience: data.YearsExperience,
		CreatedAt:       data.CreatedAt,
	}
}

func toStudentProfileDomain(data *model.StudentProfileModel) *entity.StudentProfile {
	if data == nil {
		return nil
	}

	return &entity.StudentProfile{
		UserID:      data.UserID,
		Institution: data.Institution,
		Course:      data.Course,
		YearOfStudy: data.YearOfStudy,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromStudentProfileDomain(data *entity.StudentProfile) *model.StudentProfileModel {
	return &model.StudentProfileModel{
		UserID:      data.UserID,
		Institution: data.Institution,
		Course:      data.Course,
		YearOfStudy: data.YearOfStudy,
		CreatedAt:   data.CreatedAt,
	}
}

func toConsumerProfileDomain(data *model.ConsumerProfileModel) *entity.ConsumerProfile {
	if data == nil {
		return nil
	}

	return &entity.ConsumerProfile{
		UserID:            data.UserID,
		DeliveryAddress:   data.DeliveryAddress,
		PreferredLanguage: data.PreferredLanguage,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

func fromConsumerProfileDomain(data *entity.ConsumerProfile) *model.ConsumerProfileModel {
	return &model.ConsumerProfileModel{
		UserID:            data.UserID,
		DeliveryAddress:   data.DeliveryAddress,
		PreferredLanguage: data.PreferredLanguage,
		CreatedAt:         data.CreatedAt,
	}
}
