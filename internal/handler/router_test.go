package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"
	"github.com/ledgerly/ledgerly-api/internal/handler"
	"github.com/ledgerly/ledgerly-api/internal/infra/cache"
	"github.com/ledgerly/ledgerly-api/internal/infra/observability"
	"github.com/ledgerly/ledgerly-api/internal/port"
	"github.com/ledgerly/ledgerly-api/internal/service"

	"go.uber.org/zap"
)

// fakeStore satisfies port.FinanceStore for routing tests; only Ping is
// reachable here, everything behind the JWT middleware is rejected
// before it touches storage.
type fakeStore struct {
	port.FinanceStore
}

func (f *fakeStore) Ping(_ context.Context) error { return nil }

// fakeAuthStore is a minimal in-memory AuthStore for the auth flow.
type fakeAuthStore struct {
	users  []domain.User
	tokens []domain.RefreshToken
}

func (f *fakeAuthStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
}

func (f *fakeAuthStore) CreateUser(_ context.Context, user *domain.User) error {
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeAuthStore) StoreRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	f.tokens = append(f.tokens, domain.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt})
	return nil
}

func (f *fakeAuthStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == tokenHash && !t.Revoked {
			return &t, nil
		}
	}
	return nil, nil
}

func (f *fakeAuthStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	for i, t := range f.tokens {
		if t.TokenHash == tokenHash {
			f.tokens[i].Revoked = true
		}
	}
	return nil
}

func (f *fakeAuthStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	for i, t := range f.tokens {
		if t.UserID == userID {
			f.tokens[i].Revoked = true
		}
	}
	return nil
}

func newTestRouter() http.Handler {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := &fakeStore{}
	authStore := &fakeAuthStore{}

	svc := service.NewFinanceService(store, cache.New[any](time.Minute), metrics, logger)
	authSvc := service.NewAuthService(authStore, "test-secret", 15*time.Minute, 24*time.Hour, logger)

	return handler.NewRouter(svc, authSvc, metrics, []string{"*"}, logger)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAccountsRequireToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter()

	register := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{
			"email": "ana@example.com", "name": "Ana", "password": "correct-horse",
		})
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := register(); rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec := register(); rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]string{"email": "ana@example.com", "password": "correct-horse"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode token pair: %v", err)
	}
	if pair.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var me domain.User
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "ana@example.com" {
		t.Errorf("me: expected email ana@example.com, got '%s'", me.Email)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout: expected 204, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRequestsCounted(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	svc := service.NewFinanceService(&fakeStore{}, cache.New[any](time.Minute), metrics, logger)
	authSvc := service.NewAuthService(&fakeAuthStore{}, "test-secret", 15*time.Minute, 24*time.Hour, logger)
	router := handler.NewRouter(svc, authSvc, metrics, []string{"*"}, logger)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	// Rejected request, counted under the error label.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/accounts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	summary := metrics.Snapshot()
	if summary.TotalRequests != 3 {
		t.Errorf("expected 3 requests counted, got %d", summary.TotalRequests)
	}
	if summary.ErrorRate == 0 {
		t.Error("expected a non-zero error rate after a rejected request")
	}
}

func TestLogin_BadPayload(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
