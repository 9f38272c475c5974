package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telemed-platform/config"
	"telemed-platform/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenStore treats every token id in valid as active.
type fakeTokenStore struct {
	valid map[string]bool
}

func (f *fakeTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	if f.valid == nil {
		f.valid = map[string]bool{}
	}
	f.valid[tokenID] = true
	return nil
}

func (f *fakeTokenStore) IsValid(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) (bool, error) {
	return f.valid[tokenID], nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string, tokenType jwt.TokenType) error {
	delete(f.valid, tokenID)
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	f.valid = map[string]bool{}
	return nil
}

func newTestJWTService() *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func authTestHandler(t *testing.T, wantUserID uuid.UUID, wantRole string, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		userID, ok := GetUserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantUserID, userID)

		role, ok := GetRoleFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, wantRole, role)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateAcceptsValidBearerToken(t *testing.T) {
	jwtService := newTestJWTService()
	store := &fakeTokenStore{valid: map[string]bool{}}
	m := NewAuthMiddleware(jwtService, store)

	userID := uuid.New()
	token, tokenID, err := jwtService.GenerateAccessToken(userID, "p@example.com", "patient")
	require.NoError(t, err)
	store.valid[tokenID] = true

	called := false
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(authTestHandler(t, userID, "patient", &called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateAcceptsQueryParamToken(t *testing.T) {
	jwtService := newTestJWTService()
	store := &fakeTokenStore{valid: map[string]bool{}}
	m := NewAuthMiddleware(jwtService, store)

	userID := uuid.New()
	token, tokenID, err := jwtService.GenerateAccessToken(userID, "p@example.com", "patient")
	require.NoError(t, err)
	store.valid[tokenID] = true

	called := false
	req := httptest.NewRequest(http.MethodGet, "/api/v1/realtime?table=notifications&access_token="+token, nil)
	rec := httptest.NewRecorder()

	m.Authenticate(authTestHandler(t, userID, "patient", &called)).ServeHTTP(rec, req)

	assert.True(t, called)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m := NewAuthMiddleware(newTestJWTService(), &fakeTokenStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()

	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	jwtService := newTestJWTService()
	store := &fakeTokenStore{valid: map[string]bool{}}
	m := NewAuthMiddleware(jwtService, store)

	token, tokenID, err := jwtService.GenerateRefreshToken(uuid.New(), "p@example.com", "patient")
	require.NoError(t, err)
	store.valid[tokenID] = true

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	jwtService := newTestJWTService()
	m := NewAuthMiddleware(jwtService, &fakeTokenStore{valid: map[string]bool{}})

	token, _, err := jwtService.GenerateAccessToken(uuid.New(), "p@example.com", "patient")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	ctx := context.WithValue(context.Background(), RoleKey, "doctor")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/prescriptions", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	RequireDoctor(next).ServeHTTP(rec, req)
	assert.True(t, called)

	called = false
	rec = httptest.NewRecorder()
	RequireAdmin(next).ServeHTTP(rec, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	called = false
	rec = httptest.NewRecorder()
	RequireClinician(next).ServeHTTP(rec, req)
	assert.True(t, called)
}
