package usecase

import (
	"context"
	"testing"
	"time"

	"telemed-platform/config"
	"telemed-platform/internal/delivery/dto"
	"telemed-platform/internal/domain/entity"
	"telemed-platform/internal/domain/repository"
	"telemed-platform/internal/service"
	"telemed-platform/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(db *gorm.DB, opts repository.ListOptions) ([]entity.User, int64, error) {
	args := m.Called(db, opts)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	args := m.Called(ctx, userID, tokenID, tokenType, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	args := m.Called(ctx, userID, tokenID, tokenType)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error {
	args := m.Called(ctx, userID, tokenID, tokenType)
	return args.Error(0)
}

func (m *MockTokenStore) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

var _ service.TokenStore = (*MockTokenStore)(nil)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// dummyDB builds a *gorm.DB that has no connection pool behind it. Usecase
// paths under test here never reach the database, every collaborator is
// mocked.
func dummyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{})
	require.NoError(t, err)
	return db
}

func newLoginFixture(t *testing.T) (*MockUserRepository, *MockTokenStore, AuthUsecase) {
	t.Helper()
	userRepo := new(MockUserRepository)
	tokenStore := new(MockTokenStore)
	cfg := &config.Config{
		App: config.AppConfig{Env: "production", DemoLogin: true},
	}
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		RoomExpiry:    2 * time.Hour,
	})
	uc := NewAuthUsecase(dummyDB(t), quietLogger(), cfg,
		userRepo, nil, nil, nil, jwtService, tokenStore, nil, nil)
	return userRepo, tokenStore, uc
}

func hashedUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	active := true
	return &entity.User{
		ID:       uuid.New(),
		RoleID:   entity.RoleIDPatient,
		Email:    email,
		Password: string(hash),
		FullName: "Pat Doe",
		IsActive: &active,
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo, tokenStore, uc := newLoginFixture(t)
	userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotEmpty(t, err.Error())
	assert.Nil(t, resp)
	tokenStore.AssertNumberOfCalls(t, "Store", 0)
	// Demo provisioning stays dead in production even when enabled.
	userRepo.AssertNumberOfCalls(t, "Create", 0)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo, tokenStore, uc := newLoginFixture(t)
	user := hashedUser(t, "pat@example.com", "right-password")
	userRepo.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pat@example.com",
		Password: "wrong-password",
	})

	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotEmpty(t, err.Error())
	assert.Nil(t, resp)
	tokenStore.AssertNumberOfCalls(t, "Store", 0)
}

func TestLoginDisabledAccount(t *testing.T) {
	userRepo, tokenStore, uc := newLoginFixture(t)
	user := hashedUser(t, "pat@example.com", "right-password")
	inactive := false
	user.IsActive = &inactive
	userRepo.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pat@example.com",
		Password: "right-password",
	})

	require.ErrorIs(t, err, ErrAccountDisabled)
	assert.Nil(t, resp)
	tokenStore.AssertNumberOfCalls(t, "Store", 0)
}

func TestLoginSuccessStoresBothTokens(t *testing.T) {
	userRepo, tokenStore, uc := newLoginFixture(t)
	user := hashedUser(t, "pat@example.com", "right-password")
	userRepo.On("FindByEmail", mock.Anything, "pat@example.com").Return(user, nil)
	tokenStore.On("Store", mock.Anything, user.ID, mock.Anything, jwt.AccessToken, mock.Anything).Return(nil)
	tokenStore.On("Store", mock.Anything, user.ID, mock.Anything, jwt.RefreshToken, mock.Anything).Return(nil)

	resp, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "pat@example.com",
		Password: "right-password",
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), resp.ExpiresIn)
	tokenStore.AssertNumberOfCalls(t, "Store", 2)
}
