package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/repository"
	"agrilink/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// --- transaction manager ---

type fakeTxManager struct {
	factory repository.RepositoryFactory
	execErr error
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	if m.execErr != nil {
		return m.execErr
	}

	return fn(m.factory)
}

type fakeRepoFactory struct {
	users    *fakeUserRepo
	auths    *fakeAuthRepo
	profiles *fakeProfileRepo
	ledger   *fakeLedgerRepo
	tokens   *fakeRefreshTokenRepo
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository       { return f.users }
func (f *fakeRepoFactory) NewAuthRepository() repository.AuthRepository       { return f.auths }
func (f *fakeRepoFactory) NewProfileRepository() repository.ProfileRepository { return f.profiles }
func (f *fakeRepoFactory) NewLedgerRepository() repository.LedgerRepository   { return f.ledger }
func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.tokens
}

// --- user repository ---

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[uuid.UUID]*entity.User
	findErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := make(map[uuid.UUID]*entity.User)
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			copied := *user
			found[id] = &copied
		}
	}

	return found, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) UpdateUserType(_ context.Context, id uuid.UUID, role entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.UserType = role

	return nil
}

// --- auth repository ---

type fakeAuthRepo struct {
	mu    sync.Mutex
	auths []*entity.Authentication
}

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *auth
	r.auths = append(r.auths, &copied)

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, auth := range r.auths {
		if auth.Provider == provider && auth.ProviderUserID == providerUserID {
			copied := *auth

			return &copied, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

// --- profile repository ---

type fakeProfileRepo struct {
	mu        sync.Mutex
	roles     map[uuid.UUID]entity.Role
	farmers   map[uuid.UUID]*entity.FarmerProfile
	stores    map[uuid.UUID]*entity.StoreProfile
	brokers   map[uuid.UUID]*entity.BrokerProfile
	experts   map[uuid.UUID]*entity.ExpertProfile
	students  map[uuid.UUID]*entity.StudentProfile
	consumers map[uuid.UUID]*entity.ConsumerProfile
	locations map[uuid.UUID]string

	createCalls int
	createErr   error
	scanErr     error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		roles:     make(map[uuid.UUID]entity.Role),
		farmers:   make(map[uuid.UUID]*entity.FarmerProfile),
		stores:    make(map[uuid.UUID]*entity.StoreProfile),
		brokers:   make(map[uuid.UUID]*entity.BrokerProfile),
		experts:   make(map[uuid.UUID]*entity.ExpertProfile),
		students:  make(map[uuid.UUID]*entity.StudentProfile),
		consumers: make(map[uuid.UUID]*entity.ConsumerProfile),
		locations: make(map[uuid.UUID]string),
	}
}

func (r *fakeProfileRepo) HasRoleProfile(_ context.Context, userID uuid.UUID, role entity.Role) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.roles[userID] == role, nil
}

func (r *fakeProfileRepo) FindRoleByProfile(_ context.Context, userID uuid.UUID) (entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scanErr != nil {
		return entity.RoleNone, r.scanErr
	}

	return r.roles[userID], nil
}

func (r *fakeProfileRepo) CreateDefaultProfile(_ context.Context, userID uuid.UUID, role entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	if r.roles[userID] == role {
		return repository.ErrProfileExists
	}
	r.roles[userID] = role
	switch role {
	case entity.RoleFarmer:
		r.farmers[userID] = &entity.FarmerProfile{UserID: userID}
	case entity.RoleStoreOwner:
		r.stores[userID] = &entity.StoreProfile{UserID: userID}
	case entity.RoleBroker:
		r.brokers[userID] = &entity.BrokerProfile{UserID: userID}
	case entity.RoleExpert:
		r.experts[userID] = &entity.ExpertProfile{UserID: userID}
	case entity.RoleStudent:
		r.students[userID] = &entity.StudentProfile{UserID: userID}
	case entity.RoleConsumer:
		r.consumers[userID] = &entity.ConsumerProfile{UserID: userID}
	}

	return nil
}

func (r *fakeProfileRepo) FindFarmerProfile(_ context.Context, userID uuid.UUID) (*entity.FarmerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.farmers[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile

	return &copied, nil
}

func (r *fakeProfileRepo) FindStoreProfile(_ context.Context, userID uuid.UUID) (*entity.StoreProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.stores[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile

	return &copied, nil
}

func (r *fakeProfileRepo) FindBrokerProfile(_ context.Context, userID uuid.UUID) (*entity.BrokerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.brokers[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile

	return &copied, nil
}

func (r *fakeProfileRepo) FindExpertProfile(_ context.Context, userID uuid.UUID) (*entity.ExpertProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.experts[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile

	return &copied, nil
}

func (r *fakeProfileRepo) FindStudentProfile(_ context.Context, userID uuid.UUID) (*entity.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.students[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile

	return &copied, nil
}

func (r *fakeProfileRepo) FindConsumerProfile(_ context.Context, userID uuid.UUID) (*entity.ConsumerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.consumers[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile

	return &copied, nil
}

func (r *fakeProfileRepo) UpdateFarmerProfile(_ context.Context, profile *entity.FarmerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.farmers[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) UpdateStoreProfile(_ context.Context, profile *entity.StoreProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.stores[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) UpdateBrokerProfile(_ context.Context, profile *entity.BrokerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.brokers[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) UpdateExpertProfile(_ context.Context, profile *entity.ExpertProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.experts[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) UpdateStudentProfile(_ context.Context, profile *entity.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.students[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) UpdateConsumerProfile(_ context.Context, profile *entity.ConsumerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *profile
	r.consumers[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) ListBrokerProfiles(_ context.Context) ([]*entity.BrokerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	brokers := make([]*entity.BrokerProfile, 0, len(r.brokers))
	for _, profile := range r.brokers {
		copied := *profile
		brokers = append(brokers, &copied)
	}

	return brokers, nil
}

func (r *fakeProfileRepo) FindLocations(_ context.Context, _ entity.Role, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found := make(map[uuid.UUID]string)
	for _, id := range ids {
		if loc, ok := r.locations[id]; ok {
			found[id] = loc
		}
	}

	return found, nil
}

// --- ledger repository ---

type fakeLedgerRepo struct {
	mu        sync.Mutex
	purchases []*entity.Purchase
	sales     []*entity.Sale
	createErr error
}

func (r *fakeLedgerRepo) CreatePurchase(_ context.Context, purchase *entity.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	copied := *purchase
	r.purchases = append(r.purchases, &copied)

	return nil
}

func (r *fakeLedgerRepo) CreateSale(_ context.Context, sale *entity.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	copied := *sale
	r.sales = append(r.sales, &copied)

	return nil
}

func (r *fakeLedgerRepo) FindPurchaseByID(_ context.Context, id uuid.UUID) (*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, purchase := range r.purchases {
		if purchase.ID == id {
			copied := *purchase

			return &copied, nil
		}
	}

	return nil, repository.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) FindSaleByID(_ context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sale := range r.sales {
		if sale.ID == id {
			copied := *sale

			return &copied, nil
		}
	}

	return nil, repository.ErrLedgerEntryNotFound
}

func (r *fakeLedgerRepo) ListPurchasesByFarmer(_ context.Context, farmerID uuid.UUID) ([]*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := make([]*entity.Purchase, 0)
	for _, purchase := range r.purchases {
		if purchase.FarmerID == farmerID {
			copied := *purchase
			listed = append(listed, &copied)
		}
	}

	return listed, nil
}

func (r *fakeLedgerRepo) ListPurchasesByStore(_ context.Context, storeID uuid.UUID) ([]*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := make([]*entity.Purchase, 0)
	for _, purchase := range r.purchases {
		if purchase.StoreID == storeID {
			copied := *purchase
			listed = append(listed, &copied)
		}
	}

	return listed, nil
}

func (r *fakeLedgerRepo) ListSalesByFarmer(_ context.Context, farmerID uuid.UUID) ([]*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := make([]*entity.Sale, 0)
	for _, sale := range r.sales {
		if sale.FarmerID == farmerID {
			copied := *sale
			listed = append(listed, &copied)
		}
	}

	return listed, nil
}

func (r *fakeLedgerRepo) ListSalesByBroker(_ context.Context, brokerID uuid.UUID) ([]*entity.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := make([]*entity.Sale, 0)
	for _, sale := range r.sales {
		if sale.BrokerID == brokerID {
			copied := *sale
			listed = append(listed, &copied)
		}
	}

	return listed, nil
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*entity.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	copied := *token
	r.tokens[token.TokenHash] = &copied

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, hash string) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[hash]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	copied := *token

	return &copied, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, hash)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, token := range r.tokens {
		if token.UserID == userID {
			delete(r.tokens, hash)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	now := time.Now()
	for hash, token := range r.tokens {
		if token.ExpiresAt.Before(now) {
			delete(r.tokens, hash)
			removed++
		}
	}

	return removed, nil
}

// --- domain services ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error)  { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool      { return hash == "hashed:"+password }
func (fakeHasher) ValidatePasswordStrength(string) error { return nil }

type fakeTokenService struct {
	generateErr error
	validateErr error
	claims      *service.Claims
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, _ entity.Role) (string, string, error) {
	if s.generateErr != nil {
		return "", "", s.generateErr
	}

	return "access-" + userID.String(), "refresh-" + userID.String(), nil
}

func (s *fakeTokenService) ValidateToken(string) (*service.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	if s.claims != nil {
		return s.claims, nil
	}

	return &service.Claims{}, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration { return time.Hour }

type fakeOAuthService struct {
	user *service.OAuthUser
	err  error
}

func (s *fakeOAuthService) VerifyIDToken(context.Context, string) (*service.OAuthUser, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.user, nil
}

func (s *fakeOAuthService) GetProvider() entity.ProviderType { return entity.ProviderTypeGoogle }

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []*service.TransactionEvent
	err    error
}

func (p *fakeEventPublisher) PublishTransactionEvent(_ context.Context, event *service.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)

	return nil
}

func (p *fakeEventPublisher) Close() error { return nil }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *fakeNotifier) SendSingleNotification(_ context.Context, token, _, _ string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, token)

	return nil
}

type fakeQRService struct {
	err error
}

func (s *fakeQRService) GeneratePaymentQR(service.PaymentRequest) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	return []byte{0x89, 0x50, 0x4e, 0x47}, nil
}

func (s *fakeQRService) BuildPaymentURI(req service.PaymentRequest) string {
	return "upi://pay?pa=" + req.PayeeVPA
}

var errBoom = errors.New("boom")
