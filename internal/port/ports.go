// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	DeletePrefix(prefix string)
}

// FinanceStore defines all data operations for finance entities.
// Every method is scoped to one owner; implementations must apply the
// userID filter inside the query, not after it.
type FinanceStore interface {
	// Accounts
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccount(ctx context.Context, userID string, account *domain.Account) error
	DeleteAccount(ctx context.Context, userID, accountID string) error
	CountOwnedAccounts(ctx context.Context, userID string, accountIDs []string) (int64, error)

	// Categories
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, userID string, category *domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
	OwnsCategory(ctx context.Context, userID, categoryID string) (bool, error)

	// Incomes
	ListIncomes(ctx context.Context, userID string) ([]domain.Income, error)
	ListAccountIncomes(ctx context.Context, userID, accountID string, limit int) ([]domain.Income, error)
	CreateIncome(ctx context.Context, income *domain.Income) error
	UpdateIncome(ctx context.Context, userID string, income *domain.Income) error
	DeleteIncome(ctx context.Context, userID, incomeID string) error

	// Expenses
	ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error)
	ListAccountExpenses(ctx context.Context, userID, accountID string, limit int) ([]domain.Expense, error)
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	UpdateExpense(ctx context.Context, userID string, expense *domain.Expense) error
	DeleteExpense(ctx context.Context, userID, expenseID string) error

	// Transfers
	ListTransfers(ctx context.Context, userID string, limit int) ([]domain.Transfer, error)
	ListAccountTransfers(ctx context.Context, userID, accountID string, limit int) ([]domain.Transfer, error)
	CreateTransfer(ctx context.Context, transfer *domain.Transfer) error
	UpdateTransfer(ctx context.Context, userID string, transfer *domain.Transfer) error
	DeleteTransfer(ctx context.Context, userID, transferID string) error

	// Subscriptions
	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	CreateSubscription(ctx context.Context, sub *domain.Subscription) error
	UpdateSubscription(ctx context.Context, userID string, sub *domain.Subscription) error
	DeleteSubscription(ctx context.Context, userID, subID string) error

	// Goals
	ListGoals(ctx context.Context, userID string) ([]domain.Goal, error)
	GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error)
	CreateGoal(ctx context.Context, goal *domain.Goal) error
	UpdateGoal(ctx context.Context, userID string, goal *domain.Goal) error
	SetGoalCompleted(ctx context.Context, userID, goalID string, completed bool) error
	DeleteGoal(ctx context.Context, userID, goalID string) error
	OwnsGoal(ctx context.Context, userID, goalID string) (bool, error)

	// Loans
	ListLoans(ctx context.Context, userID string) ([]domain.Loan, error)
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	UpdateLoan(ctx context.Context, userID string, loan *domain.Loan) error
	DeleteLoan(ctx context.Context, userID, loanID string) error

	// Budgets
	ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
	GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error)
	GetBudgetByCategory(ctx context.Context, userID, categoryID string) (*domain.Budget, error)
	CreateBudget(ctx context.Context, budget *domain.Budget) error
	UpdateBudget(ctx context.Context, userID string, budget *domain.Budget) error
	DeleteBudget(ctx context.Context, userID, budgetID string) error

	// Ping checks storage connectivity for health reporting.
	Ping(ctx context.Context) error
}

// AuthStore defines all data operations for the authentication system.
type AuthStore interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) error

	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}
