package impl

import (
	"context"
	"testing"

	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileTestEnv struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
	svc      usecase.ProfileUsecase
}

func newProfileTestEnv() *profileTestEnv {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	factory := &fakeRepoFactory{
		users:    users,
		auths:    &fakeAuthRepo{},
		profiles: profiles,
		ledger:   &fakeLedgerRepo{},
		tokens:   newFakeRefreshTokenRepo(),
	}
	txm := &fakeTxManager{factory: factory}

	roleSvc := NewRoleService(RoleServiceParams{
		TxManager:   txm,
		UserRepo:    users,
		ProfileRepo: profiles,
		Logger:      testLogger(),
	})

	svc := NewProfileService(ProfileServiceParams{
		UserRepo:    users,
		ProfileRepo: profiles,
		RoleUsecase: roleSvc,
		Logger:      testLogger(),
	})

	return &profileTestEnv{users: users, profiles: profiles, svc: svc}
}

func (env *profileTestEnv) addUser(role entity.Role) *entity.User {
	user := &entity.User{ID: uuid.New(), Email: "user@example.com", FullName: "Ravi Kumar", UserType: role}
	env.users.users[user.ID] = user

	return user
}

func TestGetProfile_ReturnsRoleProfile(t *testing.T) {
	env := newProfileTestEnv()
	user := env.addUser(entity.RoleFarmer)
	env.profiles.roles[user.ID] = entity.RoleFarmer
	env.profiles.farmers[user.ID] = &entity.FarmerProfile{UserID: user.ID, FarmLocation: "Nashik"}

	out, err := env.svc.GetProfile(context.Background(), user.ID)

	require.NoError(t, err)
	require.NotNil(t, out.Farmer)
	assert.Equal(t, "Nashik", out.Farmer.FarmLocation)
	assert.False(t, out.Repaired)
	assert.Nil(t, out.Broker)
}

func TestGetProfile_RepairsMissingProfileRow(t *testing.T) {
	env := newProfileTestEnv()
	// Role column set, profile row missing: half-completed provisioning.
	user := env.addUser(entity.RoleBroker)

	out, err := env.svc.GetProfile(context.Background(), user.ID)

	require.NoError(t, err)
	assert.True(t, out.Repaired)
	require.NotNil(t, out.Broker)
	assert.Equal(t, user.ID, out.Broker.UserID)
	// The repaired row persists.
	assert.Equal(t, entity.RoleBroker, env.profiles.roles[user.ID])
}

func TestGetProfile_RoleColumnLagsBehindProfileRow(t *testing.T) {
	env := newProfileTestEnv()
	// Profile row exists, role column empty: the reverse repair direction.
	user := env.addUser(entity.RoleNone)
	env.profiles.roles[user.ID] = entity.RoleStudent
	env.profiles.students[user.ID] = &entity.StudentProfile{UserID: user.ID, Institution: "KVK Pune"}

	out, err := env.svc.GetProfile(context.Background(), user.ID)

	require.NoError(t, err)
	require.NotNil(t, out.Student)
	assert.Equal(t, "KVK Pune", out.Student.Institution)
	assert.Equal(t, entity.RoleStudent, out.User.UserType)
}

func TestGetProfile_UnresolvedRoleReturnsBareUser(t *testing.T) {
	env := newProfileTestEnv()
	user := env.addUser(entity.RoleNone)

	out, err := env.svc.GetProfile(context.Background(), user.ID)

	require.NoError(t, err)
	assert.NotNil(t, out.User)
	assert.Nil(t, out.Farmer)
	assert.Nil(t, out.Consumer)
	assert.False(t, out.Repaired)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	env := newProfileTestEnv()

	_, err := env.svc.GetProfile(context.Background(), uuid.New())

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUpdateFarmerProfile_AppliesOnlyProvidedFields(t *testing.T) {
	env := newProfileTestEnv()
	user := env.addUser(entity.RoleFarmer)
	env.profiles.farmers[user.ID] = &entity.FarmerProfile{
		UserID:       user.ID,
		FarmLocation: "Nashik",
		LandAcres:    3.5,
	}

	location := "Pune"
	crops := []string{"Wheat", "Onion"}
	err := env.svc.UpdateFarmerProfile(context.Background(), user.ID, &usecase.UpdateFarmerProfileInput{
		FarmLocation: &location,
		CropsGrown:   &crops,
	})

	require.NoError(t, err)
	stored := env.profiles.farmers[user.ID]
	assert.Equal(t, "Pune", stored.FarmLocation)
	assert.Equal(t, crops, stored.CropsGrown)
	// Untouched fields keep their values.
	assert.InDelta(t, 3.5, stored.LandAcres, 0.0001)
}

func TestUpdateBrokerProfile_MissingProfile(t *testing.T) {
	env := newProfileTestEnv()
	user := env.addUser(entity.RoleBroker)

	commission := 6.0
	err := env.svc.UpdateBrokerProfile(context.Background(), user.ID, &usecase.UpdateBrokerProfileInput{
		CommissionPercent: &commission,
	})

	assert.True(t, errors.Is(err, domainerrors.ErrProfileNotFound))
}

func TestNearbyMarkets_SortsByDistanceAndRespectsRadius(t *testing.T) {
	env := newProfileTestEnv()

	near := uuid.New()
	far := uuid.New()
	tooFar := uuid.New()
	noCoords := uuid.New()
	// Origin is Nashik; Pune is ~165 km away, Delhi far beyond.
	env.profiles.brokers[near] = &entity.BrokerProfile{UserID: near, MarketName: "Nashik Mandi", Latitude: 19.9975, Longitude: 73.7898}
	env.profiles.brokers[far] = &entity.BrokerProfile{UserID: far, MarketName: "Pune Mandi", Latitude: 18.5204, Longitude: 73.8567}
	env.profiles.brokers[tooFar] = &entity.BrokerProfile{UserID: tooFar, MarketName: "Azadpur Mandi", Latitude: 28.7041, Longitude: 77.1025}
	env.profiles.brokers[noCoords] = &entity.BrokerProfile{UserID: noCoords, MarketName: "Ghost Mandi"}

	markets, err := env.svc.NearbyMarkets(context.Background(), 20.0, 73.78, 200)

	require.NoError(t, err)
	require.Len(t, markets, 2)
	assert.Equal(t, "Nashik Mandi", markets[0].MarketName)
	assert.Equal(t, "Pune Mandi", markets[1].MarketName)
	assert.Less(t, markets[0].DistanceKm, markets[1].DistanceKm)
}

func TestNearbyMarkets_InvalidCoordinates(t *testing.T) {
	env := newProfileTestEnv()

	_, err := env.svc.NearbyMarkets(context.Background(), 120, 73.78, 50)

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
