package integration_test

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

// memStore implements the slice of port.FinanceStore this flow touches;
// everything else panics on use via the embedded nil interface.
type memStore struct {
	port.FinanceStore

	accounts  []domain.Account
	incomes   []domain.Income
	expenses  []domain.Expense
	transfers []domain.Transfer
}

func (m *memStore) ListAccounts(_ context.Context, userID string) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memStore) CreateAccount(_ context.Context, account *domain.Account) error {
	m.accounts = append(m.accounts, *account)
	return nil
}

func (m *memStore) CountOwnedAccounts(_ context.Context, userID string, accountIDs []string) (int64, error) {
	var n int64
	for _, id := range accountIDs {
		for _, a := range m.accounts {
			if a.UserID == userID && a.ID == id {
				n++
				break
			}
		}
	}
	return n, nil
}

func (m *memStore) ListIncomes(_ context.Context, userID string) ([]domain.Income, error) {
	var out []domain.Income
	for _, in := range m.incomes {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *memStore) CreateIncome(_ context.Context, income *domain.Income) error {
	m.incomes = append(m.incomes, *income)
	return nil
}

func (m *memStore) ListExpenses(_ context.Context, userID string) ([]domain.Expense, error) {
	var out []domain.Expense
	for _, ex := range m.expenses {
		if ex.UserID == userID {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (m *memStore) CreateExpense(_ context.Context, expense *domain.Expense) error {
	m.expenses = append(m.expenses, *expense)
	return nil
}

func (m *memStore) ListTransfers(_ context.Context, userID string, limit int) ([]domain.Transfer, error) {
	var out []domain.Transfer
	for _, t := range m.transfers {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	owned, _ := m.CountOwnedAccounts(ctx, transfer.UserID, []string{transfer.FromAccountID, transfer.ToAccountID})
	if owned != 2 {
		return &domain.ErrReference{Resource: "account", Message: "account does not exist"}
	}
	m.transfers = append(m.transfers, *transfer)
	return nil
}

func (m *memStore) ListCategories(_ context.Context, userID string) ([]domain.Category, error) {
	return nil, nil
}

func (m *memStore) ListBudgets(_ context.Context, userID string) ([]domain.Budget, error) {
	return nil, nil
}

func (m *memStore) ListLoans(_ context.Context, userID string) ([]domain.Loan, error) {
	return nil, nil
}

func (m *memStore) ListSubscriptions(_ context.Context, userID string) ([]domain.Subscription, error) {
	return nil, nil
}

func (m *memStore) Ping(_ context.Context) error { return nil }

// memAuthStore is an in-memory AuthStore.
type memAuthStore struct {
	users  []domain.User
	tokens []domain.RefreshToken
}

func (m *memAuthStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memAuthStore) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return &u, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
}

func (m *memAuthStore) CreateUser(_ context.Context, user *domain.User) error {
	m.users = append(m.users, *user)
	return nil
}

func (m *memAuthStore) StoreRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	m.tokens = append(m.tokens, domain.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt})
	return nil
}

func (m *memAuthStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.RefreshToken, error) {
	for _, t := range m.tokens {
		if t.TokenHash == tokenHash && !t.Revoked {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memAuthStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	for i, t := range m.tokens {
		if t.TokenHash == tokenHash {
			m.tokens[i].Revoked = true
		}
	}
	return nil
}

func (m *memAuthStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	for i, t := range m.tokens {
		if t.UserID == userID {
			m.tokens[i].Revoked = true
		}
	}
	return nil
}

// TestIntegration_FullFlow registers a user, logs in, builds a small
// ledger over HTTP and checks the derived balances end to end.
func TestIntegration_FullFlow(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	svc := service.NewFinanceService(&memStore{}, cache.New[any](5*time.Minute), metrics, logger)
	authSvc := service.NewAuthService(&memAuthStore{}, "integration-secret", 15*time.Minute, 24*time.Hour, logger)
	router := handler.NewRouter(svc, authSvc, metrics, []string{"*"}, logger)

	do := func(method, path, token string, payload any) *httptest.ResponseRecorder {
		var body *bytes.Reader
		if payload != nil {
			b, _ := json.Marshal(payload)
			body = bytes.NewReader(b)
		} else {
			body = bytes.NewReader(nil)
		}
		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// --- Register & login ---
	rec := do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "flow@example.com", "name": "Flow", "password": "correct-horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	rec = do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "flow@example.com", "password": "correct-horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var pair domain.TokenPair
	if err := json.NewDecoder(rec.Body).Decode(&pair); err != nil {
		t.Fatalf("decode token pair: %v", err)
	}
	token := pair.AccessToken

	// --- Build the ledger ---
	rec = do(http.MethodPost, "/v1/accounts", token, map[string]any{
		"name": "Checking", "initialAmount": 100,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create checking: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var checking domain.Account
	if err := json.NewDecoder(rec.Body).Decode(&checking); err != nil {
		t.Fatalf("decode account: %v", err)
	}

	rec = do(http.MethodPost, "/v1/accounts", token, map[string]any{"name": "Savings"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create savings: expected 201, got %d", rec.Code)
	}
	var savings domain.Account
	if err := json.NewDecoder(rec.Body).Decode(&savings); err != nil {
		t.Fatalf("decode account: %v", err)
	}

	rec = do(http.MethodPost, "/v1/incomes", token, map[string]any{
		"accountId": checking.ID, "name": "Salary", "amount": 50,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create income: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	rec = do(http.MethodPost, "/v1/expenses", token, map[string]any{
		"accountId": checking.ID, "name": "Groceries", "amount": 30,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	rec = do(http.MethodPost, "/v1/transfers", token, map[string]any{
		"fromAccountId": checking.ID, "toAccountId": savings.ID, "name": "Stash", "amount": 20,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transfer: expected 201, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	// --- Derived balances ---
	rec = do(http.MethodGet, "/v1/accounts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list accounts: expected 200, got %d", rec.Code)
	}
	var balances []domain.AccountBalance
	if err := json.NewDecoder(rec.Body).Decode(&balances); err != nil {
		t.Fatalf("decode balances: %v", err)
	}
	got := map[string]string{}
	for _, b := range balances {
		got[b.ID] = b.CurrentBalance.String()
	}
	if got[checking.ID] != "100.00" {
		t.Errorf("checking: expected 100.00, got %s", got[checking.ID])
	}
	if got[savings.ID] != "20.00" {
		t.Errorf("savings: expected 20.00, got %s", got[savings.ID])
	}

	// --- Dashboard aggregates ---
	rec = do(http.MethodGet, "/v1/dashboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
	var summary domain.DashboardSummary
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if summary.TotalBalance.String() != "120.00" {
		t.Errorf("expected total balance 120.00, got %s", summary.TotalBalance.String())
	}
	if len(summary.RecentTransfers) != 1 {
		t.Errorf("expected 1 recent transfer, got %d", len(summary.RecentTransfers))
	}
}

// TestIntegration_CrossOwnerIsolation checks that one user's token
// cannot reference another user's account.
func TestIntegration_CrossOwnerIsolation(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	svc := service.NewFinanceService(&memStore{}, cache.New[any](5*time.Minute), metrics, logger)
	authSvc := service.NewAuthService(&memAuthStore{}, "integration-secret", 15*time.Minute, 24*time.Hour, logger)
	router := handler.NewRouter(svc, authSvc, metrics, []string{"*"}, logger)

	signup := func(email string) string {
		body, _ := json.Marshal(map[string]string{"email": email, "name": "User", "password": "correct-horse"})
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("register %s: got %d", email, rec.Code)
		}

		body, _ = json.Marshal(map[string]string{"email": email, "password": "correct-horse"})
		req = httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		var pair domain.TokenPair
		if err := json.NewDecoder(rec.Body).Decode(&pair); err != nil {
			t.Fatalf("decode pair: %v", err)
		}
		return pair.AccessToken
	}

	alice := signup("alice@example.com")
	mallory := signup("mallory@example.com")

	body, _ := json.Marshal(map[string]any{"name": "Alice's", "initialAmount": 500})
	req := httptest.NewRequest(http.MethodPost, "/v1/accounts", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+alice)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create account: got %d", rec.Code)
	}
	var account domain.Account
	if err := json.NewDecoder(rec.Body).Decode(&account); err != nil {
		t.Fatalf("decode account: %v", err)
	}

	body, _ = json.Marshal(map[string]any{"accountId": account.ID, "name": "Drain", "amount": 500})
	req = httptest.NewRequest(http.MethodPost, "/v1/expenses", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mallory)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a foreign account reference, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}
