package impl

import (
	"context"
	"testing"

	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/service"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userTestEnv struct {
	users    *fakeUserRepo
	auths    *fakeAuthRepo
	profiles *fakeProfileRepo
	tokens   *fakeRefreshTokenRepo
	oauth    *fakeOAuthService
	tokenSvc *fakeTokenService
	svc      usecase.UserUsecase
}

func newUserTestEnv() *userTestEnv {
	users := newFakeUserRepo()
	auths := &fakeAuthRepo{}
	profiles := newFakeProfileRepo()
	tokens := newFakeRefreshTokenRepo()
	factory := &fakeRepoFactory{
		users:    users,
		auths:    auths,
		profiles: profiles,
		ledger:   &fakeLedgerRepo{},
		tokens:   tokens,
	}
	txm := &fakeTxManager{factory: factory}
	oauth := &fakeOAuthService{}
	tokenSvc := &fakeTokenService{}

	roleSvc := NewRoleService(RoleServiceParams{
		TxManager:   txm,
		UserRepo:    users,
		ProfileRepo: profiles,
		Logger:      testLogger(),
	})

	svc := NewUserService(UserServiceParams{
		TxManager:         txm,
		UserRepo:          users,
		AuthRepo:          auths,
		RefreshTokenRepo:  tokens,
		Hasher:            fakeHasher{},
		TokenService:      tokenSvc,
		GoogleAuthService: oauth,
		RoleUsecase:       roleSvc,
		Logger:            testLogger(),
	})

	return &userTestEnv{
		users:    users,
		auths:    auths,
		profiles: profiles,
		tokens:   tokens,
		oauth:    oauth,
		tokenSvc: tokenSvc,
		svc:      svc,
	}
}

func TestRegister_WithRoleHint(t *testing.T) {
	env := newUserTestEnv()

	out, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName:      "Ravi Kumar",
		Email:         "ravi@example.com",
		Password:      "s3cret-pass",
		RequestedRole: "farmer",
	})

	require.NoError(t, err)
	assert.True(t, out.RoleResolved)
	assert.True(t, out.ProfileCreated)
	assert.Equal(t, entity.RoleFarmer, out.Role)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)

	// Profile row and role column both exist afterwards.
	assert.Equal(t, entity.RoleFarmer, env.profiles.roles[out.User.ID])
	assert.Equal(t, entity.RoleFarmer, env.users.users[out.User.ID].UserType)
	assert.Len(t, env.tokens.tokens, 1)
}

func TestRegister_WithoutRoleHintStaysUnresolved(t *testing.T) {
	env := newUserTestEnv()

	out, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.False(t, out.RoleResolved)
	assert.False(t, out.ProfileCreated)
	assert.Equal(t, entity.RoleNone, out.Role)
	// Tokens are still issued; the client prompts for a role next.
	assert.NotEmpty(t, out.AccessToken)
}

func TestRegister_ProvisioningFailureStillRoutes(t *testing.T) {
	env := newUserTestEnv()
	env.profiles.createErr = errBoom

	out, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName:      "Ravi Kumar",
		Email:         "ravi@example.com",
		Password:      "s3cret-pass",
		RequestedRole: "farmer",
	})

	// The role is determined; a failed profile side-write must not block
	// routing. Read repair on the next profile access finishes the job.
	require.NoError(t, err)
	assert.True(t, out.RoleResolved)
	assert.False(t, out.ProfileCreated)
	assert.Equal(t, entity.RoleFarmer, out.Role)
	assert.NotEmpty(t, out.AccessToken)
	assert.Len(t, env.tokens.tokens, 1)
}

func TestLogin_ResolutionFailureDegradesToManualSelection(t *testing.T) {
	env := newUserTestEnv()
	_, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	env.profiles.scanErr = errBoom

	out, err := env.svc.Login(context.Background(), usecase.LoginInput{Email: "ravi@example.com", Password: "s3cret-pass"})

	// An unreachable store degrades to the manual role picker instead of
	// failing the login.
	require.NoError(t, err)
	assert.False(t, out.RoleResolved)
	assert.Equal(t, entity.RoleNone, out.Role)
	assert.NotEmpty(t, out.AccessToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newUserTestEnv()
	input := usecase.RegisterInput{FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass"}

	_, err := env.svc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = env.svc.Register(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestLogin_Success(t *testing.T) {
	env := newUserTestEnv()
	_, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass", RequestedRole: "farmer",
	})
	require.NoError(t, err)

	out, err := env.svc.Login(context.Background(), usecase.LoginInput{Email: "ravi@example.com", Password: "s3cret-pass"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleFarmer, out.Role)
	assert.True(t, out.RoleResolved)
	assert.False(t, out.ProfileCreated, "login against a provisioned account creates nothing")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newUserTestEnv()
	_, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = env.svc.Login(context.Background(), usecase.LoginInput{Email: "ravi@example.com", Password: "wrong"})

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newUserTestEnv()

	_, err := env.svc.Login(context.Background(), usecase.LoginInput{Email: "nobody@example.com", Password: "whatever"})

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestGoogleSignIn_NewUserWithMetadataRole(t *testing.T) {
	env := newUserTestEnv()
	env.oauth.user = &service.OAuthUser{
		ID:       "google-sub-1",
		Email:    "meera@example.com",
		Name:     "Meera Devi",
		Metadata: map[string]string{"role": "broker"},
	}

	out, err := env.svc.GoogleSignIn(context.Background(), usecase.GoogleSignInInput{IDToken: "token"})

	require.NoError(t, err)
	assert.True(t, out.RoleResolved)
	assert.Equal(t, entity.RoleBroker, out.Role)
	assert.True(t, out.ProfileCreated)
	assert.Equal(t, "Meera Devi", out.User.FullName)
}

func TestGoogleSignIn_HintBeatsMetadata(t *testing.T) {
	env := newUserTestEnv()
	env.oauth.user = &service.OAuthUser{
		ID:       "google-sub-2",
		Email:    "meera@example.com",
		Metadata: map[string]string{"role": "broker"},
	}

	out, err := env.svc.GoogleSignIn(context.Background(), usecase.GoogleSignInInput{IDToken: "token", RequestedRole: "consumer"})

	require.NoError(t, err)
	assert.Equal(t, entity.RoleConsumer, out.Role)
}

func TestGoogleSignIn_ExistingUserKeepsProvisionedRole(t *testing.T) {
	env := newUserTestEnv()
	env.oauth.user = &service.OAuthUser{ID: "google-sub-3", Email: "meera@example.com"}

	first, err := env.svc.GoogleSignIn(context.Background(), usecase.GoogleSignInInput{IDToken: "token", RequestedRole: "farmer"})
	require.NoError(t, err)
	require.True(t, first.ProfileCreated)

	// Sign in again with a conflicting hint; the existing profile wins.
	second, err := env.svc.GoogleSignIn(context.Background(), usecase.GoogleSignInInput{IDToken: "token", RequestedRole: "broker"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFarmer, second.Role)
	assert.False(t, second.ProfileCreated)
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestGoogleSignIn_InvalidToken(t *testing.T) {
	env := newUserTestEnv()
	env.oauth.err = errBoom

	_, err := env.svc.GoogleSignIn(context.Background(), usecase.GoogleSignInInput{IDToken: "bad"})

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthTokenInvalid))
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	env := newUserTestEnv()
	registered, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass", RequestedRole: "farmer",
	})
	require.NoError(t, err)

	env.tokenSvc.claims = &service.Claims{UserID: registered.User.ID}
	out, err := env.svc.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: registered.RefreshToken})

	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)
	// The refresh token is not rotated.
	assert.Equal(t, registered.RefreshToken, out.RefreshToken)
}

func TestRefresh_UnknownToken(t *testing.T) {
	env := newUserTestEnv()
	env.tokenSvc.claims = &service.Claims{UserID: uuid.New()}

	_, err := env.svc.Refresh(context.Background(), usecase.RefreshInput{RefreshToken: "never-stored"})

	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestLogout_DeletesStoredToken(t *testing.T) {
	env := newUserTestEnv()
	registered, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.Len(t, env.tokens.tokens, 1)

	err = env.svc.Logout(context.Background(), registered.RefreshToken)

	require.NoError(t, err)
	assert.Empty(t, env.tokens.tokens)
}

func TestLogoutAll_DeletesEverySession(t *testing.T) {
	env := newUserTestEnv()
	registered, err := env.svc.Register(context.Background(), usecase.RegisterInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = env.svc.Login(context.Background(), usecase.LoginInput{Email: "ravi@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	err = env.svc.LogoutAll(context.Background(), registered.User.ID.String())

	require.NoError(t, err)
	assert.Empty(t, env.tokens.tokens)
}
