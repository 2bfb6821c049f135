// Package domain defines the core business entities for ledgerly.
// These models are independent of the storage layer and represent the
// canonical data structures used throughout the API.
package domain

import "time"

// ============================================================
// Enumerations
// ============================================================

// BillingCycle is the cadence of a subscription charge.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "MONTHLY"
	BillingYearly  BillingCycle = "YEARLY"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "ACTIVE"
	SubscriptionInactive SubscriptionStatus = "INACTIVE"
)

// LoanDirection tells whether the user owes or is owed the amount.
type LoanDirection string

const (
	LoanPayable    LoanDirection = "PAYABLE"
	LoanReceivable LoanDirection = "RECEIVABLE"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive LoanStatus = "ACTIVE"
	LoanPaid   LoanStatus = "PAID"
	LoanClosed LoanStatus = "CLOSED"
)

// GoalType classifies what a goal is saving toward.
type GoalType string

const (
	GoalSavings       GoalType = "SAVINGS"
	GoalInvestment    GoalType = "INVESTMENT"
	GoalRevenueTarget GoalType = "REVENUE_TARGET"
)

// BudgetState classifies utilization for display.
type BudgetState string

const (
	BudgetOK        BudgetState = "ok"
	BudgetNearLimit BudgetState = "near_limit"
	BudgetOver      BudgetState = "over_budget"
)

// ============================================================
// Entities
// ============================================================

// Account is a container of funds with a fixed opening amount.
// Its current balance is always derived, never stored.
type Account struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	InitialAmount Money     `json:"initialAmount"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Category labels expenses and anchors budgets.
type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Income is money entering an account.
type Income struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	AccountID string    `json:"accountId"`
	Name      string    `json:"name"`
	Amount    Money     `json:"amount"`
	Date      time.Time `json:"date"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Expense is money leaving an account, optionally categorized.
type Expense struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	AccountID  string    `json:"accountId"`
	CategoryID string    `json:"categoryId,omitempty"`
	Name       string    `json:"name"`
	Amount     Money     `json:"amount"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Transfer moves money between two accounts of the same owner,
// optionally earmarked for a goal.
type Transfer struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	GoalID        string    `json:"goalId,omitempty"`
	Name          string    `json:"name"`
	Amount        Money     `json:"amount"`
	Date          time.Time `json:"date"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Subscription is a recurring charge the user tracks manually.
type Subscription struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Name            string             `json:"name"`
	Amount          Money              `json:"amount"`
	BillingCycle    BillingCycle       `json:"billingCycle"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
	Status          SubscriptionStatus `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Goal is a savings target funded by transfers that reference it.
// Completion is a manual toggle; reaching the target changes nothing
// on its own.
type Goal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Type          GoalType  `json:"type"`
	AccountID     string    `json:"accountId,omitempty"`
	TargetAmount  Money     `json:"targetAmount"`
	InitialAmount Money     `json:"initialAmount"`
	TargetDate    time.Time `json:"targetDate"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Loan is an informal debt in either direction. RemainingAmount is
// edited by the user as they pay the loan down; it is never derived.
type Loan struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	Name            string        `json:"name"`
	TotalAmount     Money         `json:"totalAmount"`
	RemainingAmount Money         `json:"remainingAmount"`
	InterestRate    *float64      `json:"interestRate,omitempty"`
	Direction       LoanDirection `json:"direction"`
	Status          LoanStatus    `json:"status"`
	Counterparty    string        `json:"counterparty,omitempty"`
	DueDate         *time.Time    `json:"dueDate,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Budget is a monthly spending cap for one category.
// At most one budget exists per (owner, category).
type Budget struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	Amount     Money     `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ============================================================
// Write payloads
// ============================================================

// AccountInput is the payload for creating or updating an account.
type AccountInput struct {
	Name          string    `json:"name"`
	InitialAmount Money     `json:"initialAmount"`
	Date          time.Time `json:"date"`
}

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// EntryInput covers incomes and expenses; CategoryID is ignored for
// incomes.
type EntryInput struct {
	AccountID  string    `json:"accountId"`
	CategoryID string    `json:"categoryId,omitempty"`
	Name       string    `json:"name"`
	Amount     Money     `json:"amount"`
	Date       time.Time `json:"date"`
	Notes      string    `json:"notes,omitempty"`
}

// TransferInput is the payload for creating or updating a transfer.
type TransferInput struct {
	FromAccountID string    `json:"fromAccountId"`
	ToAccountID   string    `json:"toAccountId"`
	GoalID        string    `json:"goalId,omitempty"`
	Name          string    `json:"name"`
	Amount        Money     `json:"amount"`
	Date          time.Time `json:"date"`
}

// SubscriptionInput is the payload for creating or updating a subscription.
type SubscriptionInput struct {
	Name            string             `json:"name"`
	Amount          Money              `json:"amount"`
	BillingCycle    BillingCycle       `json:"billingCycle"`
	NextBillingDate time.Time          `json:"nextBillingDate"`
	Status          SubscriptionStatus `json:"status,omitempty"`
}

// GoalInput is the payload for creating or updating a goal.
type GoalInput struct {
	Name          string    `json:"name"`
	Type          GoalType  `json:"type"`
	AccountID     string    `json:"accountId,omitempty"`
	TargetAmount  Money     `json:"targetAmount"`
	InitialAmount Money     `json:"initialAmount"`
	TargetDate    time.Time `json:"targetDate"`
}

// LoanInput is the payload for creating or updating a loan.
type LoanInput struct {
	Name            string        `json:"name"`
	TotalAmount     Money         `json:"totalAmount"`
	RemainingAmount Money         `json:"remainingAmount"`
	InterestRate    *float64      `json:"interestRate,omitempty"`
	Direction       LoanDirection `json:"direction"`
	Status          LoanStatus    `json:"status,omitempty"`
	Counterparty    string        `json:"counterparty,omitempty"`
	DueDate         *time.Time    `json:"dueDate,omitempty"`
}

// BudgetInput is the payload for creating or updating a budget.
type BudgetInput struct {
	CategoryID string `json:"categoryId"`
	Amount     Money  `json:"amount"`
}

// ============================================================
// Derived projections
// ============================================================

// AccountBalance is an account with its derived current balance.
type AccountBalance struct {
	Account
	CurrentBalance Money `json:"currentBalance"`
}

// GoalProgress is a goal with its derived funding state.
type GoalProgress struct {
	Goal
	CurrentAmount   Money   `json:"currentAmount"`
	ProgressPercent float64 `json:"progressPercent"`
}

// BudgetUsage is a budget with its current-month spend.
type BudgetUsage struct {
	Budget
	CategoryName string      `json:"categoryName,omitempty"`
	Spent        Money       `json:"spent"`
	Percentage   float64     `json:"percentage"`
	State        BudgetState `json:"state"`
}

// AccountDetail is one account plus its most recent activity.
type AccountDetail struct {
	AccountBalance
	RecentIncomes   []Income   `json:"recentIncomes"`
	RecentExpenses  []Expense  `json:"recentExpenses"`
	RecentTransfers []Transfer `json:"recentTransfers"`
}

// DashboardSummary is the aggregate view served at GET /v1/dashboard.
type DashboardSummary struct {
	Accounts                []AccountBalance `json:"accounts"`
	RecentTransfers         []Transfer       `json:"recentTransfers"`
	Budgets                 []BudgetUsage    `json:"budgets"`
	Loans                   []Loan           `json:"loans"`
	Subscriptions           []Subscription   `json:"subscriptions"`
	TotalBalance            Money            `json:"totalBalance"`
	TotalDebt               Money            `json:"totalDebt"`
	MonthlySubscriptionCost Money            `json:"monthlySubscriptionCost"`
}

// ============================================================
// Auth
// ============================================================

// User is an account holder. Everything else in the system hangs off
// the user ID.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest is the payload for POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the payload for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
}

// RefreshToken is a stored (hashed) refresh token.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
}

// ============================================================
// Operational
// ============================================================

// ServiceHealth reports one dependency's health.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
}

// HealthStatus is the aggregate response of GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// MetricsSummary is the JSON snapshot served at GET /v1/metrics/summary.
type MetricsSummary struct {
	TotalRequests int64   `json:"total_requests"`
	ErrorRate     float64 `json:"error_rate"`
	CacheHitRate  float64 `json:"cache_hit_rate"`
	StoreErrors   int64   `json:"store_errors"`
	Period        string  `json:"period"`
}
