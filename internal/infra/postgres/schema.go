package postgres

import (
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"
)

// Row types map table columns to the domain. Amounts are NUMERIC(18,2);
// optional references are nullable columns surfaced as empty strings in
// the domain.

type userRow struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	Name         string `gorm:"size:100"`
	PasswordHash string `gorm:"size:100;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type refreshTokenRow struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;index"`
	TokenHash string `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time
	Revoked   bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (refreshTokenRow) TableName() string { return "refresh_tokens" }

type accountRow struct {
	ID            string       `gorm:"type:uuid;primaryKey"`
	UserID        string       `gorm:"type:uuid;not null;index"`
	Name          string       `gorm:"size:100;not null"`
	InitialAmount domain.Money `gorm:"type:numeric(18,2);not null"`
	Date          time.Time    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (accountRow) TableName() string { return "accounts" }

type categoryRow struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;index"`
	Name      string `gorm:"size:50;not null"`
	Color     string `gorm:"size:7"`
	Icon      string `gorm:"size:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (categoryRow) TableName() string { return "categories" }

type incomeRow struct {
	ID        string       `gorm:"type:uuid;primaryKey"`
	UserID    string       `gorm:"type:uuid;not null;index"`
	AccountID string       `gorm:"type:uuid;not null;index"`
	Name      string       `gorm:"size:100;not null"`
	Amount    domain.Money `gorm:"type:numeric(18,2);not null"`
	Date      time.Time    `gorm:"not null;index"`
	Notes     string       `gorm:"size:1000"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (incomeRow) TableName() string { return "incomes" }

type expenseRow struct {
	ID         string       `gorm:"type:uuid;primaryKey"`
	UserID     string       `gorm:"type:uuid;not null;index"`
	AccountID  string       `gorm:"type:uuid;not null;index"`
	CategoryID *string      `gorm:"type:uuid;index"`
	Name       string       `gorm:"size:100;not null"`
	Amount     domain.Money `gorm:"type:numeric(18,2);not null"`
	Date       time.Time    `gorm:"not null;index"`
	Notes      string       `gorm:"size:1000"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (expenseRow) TableName() string { return "expenses" }

type transferRow struct {
	ID            string       `gorm:"type:uuid;primaryKey"`
	UserID        string       `gorm:"type:uuid;not null;index"`
	FromAccountID string       `gorm:"type:uuid;not null;index"`
	ToAccountID   string       `gorm:"type:uuid;not null;index"`
	GoalID        *string      `gorm:"type:uuid;index"`
	Name          string       `gorm:"size:100;not null"`
	Amount        domain.Money `gorm:"type:numeric(18,2);not null"`
	Date          time.Time    `gorm:"not null;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (transferRow) TableName() string { return "transfers" }

type subscriptionRow struct {
	ID              string       `gorm:"type:uuid;primaryKey"`
	UserID          string       `gorm:"type:uuid;not null;index"`
	Name            string       `gorm:"size:100;not null"`
	Amount          domain.Money `gorm:"type:numeric(18,2);not null"`
	BillingCycle    string       `gorm:"size:10;not null"`
	NextBillingDate time.Time    `gorm:"not null"`
	Status          string       `gorm:"size:10;not null;default:ACTIVE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (subscriptionRow) TableName() string { return "subscriptions" }

type goalRow struct {
	ID            string       `gorm:"type:uuid;primaryKey"`
	UserID        string       `gorm:"type:uuid;not null;index"`
	Name          string       `gorm:"size:100;not null"`
	Type          string       `gorm:"size:20;not null;default:SAVINGS"`
	AccountID     *string      `gorm:"type:uuid;index"`
	TargetAmount  domain.Money `gorm:"type:numeric(18,2);not null"`
	InitialAmount domain.Money `gorm:"type:numeric(18,2);not null"`
	TargetDate    time.Time    `gorm:"not null"`
	Completed     bool         `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (goalRow) TableName() string { return "goals" }

type loanRow struct {
	ID              string       `gorm:"type:uuid;primaryKey"`
	UserID          string       `gorm:"type:uuid;not null;index"`
	Name            string       `gorm:"size:100;not null"`
	TotalAmount     domain.Money `gorm:"type:numeric(18,2);not null"`
	RemainingAmount domain.Money `gorm:"type:numeric(18,2);not null"`
	InterestRate    *float64     `gorm:"type:numeric(6,3)"`
	Direction       string       `gorm:"size:10;not null"`
	Status          string       `gorm:"size:10;not null;default:ACTIVE"`
	Counterparty    string       `gorm:"size:100"`
	DueDate         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (loanRow) TableName() string { return "loans" }

type budgetRow struct {
	ID         string       `gorm:"type:uuid;primaryKey"`
	UserID     string       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category"`
	CategoryID string       `gorm:"type:uuid;not null;uniqueIndex:idx_budgets_user_category"`
	Amount     domain.Money `gorm:"type:numeric(18,2);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (budgetRow) TableName() string { return "budgets" }

// --- converters ---

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (r *accountRow) toDomain() domain.Account {
	return domain.Account{
		ID: r.ID, UserID: r.UserID, Name: r.Name,
		InitialAmount: r.InitialAmount, Date: r.Date,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func accountRowFrom(a *domain.Account) accountRow {
	return accountRow{
		ID: a.ID, UserID: a.UserID, Name: a.Name,
		InitialAmount: a.InitialAmount, Date: a.Date,
	}
}

func (r *categoryRow) toDomain() domain.Category {
	return domain.Category{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Color: r.Color, Icon: r.Icon,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func categoryRowFrom(c *domain.Category) categoryRow {
	return categoryRow{ID: c.ID, UserID: c.UserID, Name: c.Name, Color: c.Color, Icon: c.Icon}
}

func (r *incomeRow) toDomain() domain.Income {
	return domain.Income{
		ID: r.ID, UserID: r.UserID, AccountID: r.AccountID, Name: r.Name,
		Amount: r.Amount, Date: r.Date, Notes: r.Notes,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func incomeRowFrom(in *domain.Income) incomeRow {
	return incomeRow{
		ID: in.ID, UserID: in.UserID, AccountID: in.AccountID, Name: in.Name,
		Amount: in.Amount, Date: in.Date, Notes: in.Notes,
	}
}

func (r *expenseRow) toDomain() domain.Expense {
	return domain.Expense{
		ID: r.ID, UserID: r.UserID, AccountID: r.AccountID, CategoryID: strVal(r.CategoryID),
		Name: r.Name, Amount: r.Amount, Date: r.Date, Notes: r.Notes,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func expenseRowFrom(ex *domain.Expense) expenseRow {
	return expenseRow{
		ID: ex.ID, UserID: ex.UserID, AccountID: ex.AccountID, CategoryID: strPtr(ex.CategoryID),
		Name: ex.Name, Amount: ex.Amount, Date: ex.Date, Notes: ex.Notes,
	}
}

func (r *transferRow) toDomain() domain.Transfer {
	return domain.Transfer{
		ID: r.ID, UserID: r.UserID, FromAccountID: r.FromAccountID, ToAccountID: r.ToAccountID,
		GoalID: strVal(r.GoalID), Name: r.Name, Amount: r.Amount, Date: r.Date,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func transferRowFrom(t *domain.Transfer) transferRow {
	return transferRow{
		ID: t.ID, UserID: t.UserID, FromAccountID: t.FromAccountID, ToAccountID: t.ToAccountID,
		GoalID: strPtr(t.GoalID), Name: t.Name, Amount: t.Amount, Date: t.Date,
	}
}

func (r *subscriptionRow) toDomain() domain.Subscription {
	return domain.Subscription{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Amount: r.Amount,
		BillingCycle: domain.BillingCycle(r.BillingCycle), NextBillingDate: r.NextBillingDate,
		Status:    domain.SubscriptionStatus(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func subscriptionRowFrom(s *domain.Subscription) subscriptionRow {
	return subscriptionRow{
		ID: s.ID, UserID: s.UserID, Name: s.Name, Amount: s.Amount,
		BillingCycle: string(s.BillingCycle), NextBillingDate: s.NextBillingDate,
		Status: string(s.Status),
	}
}

func (r *goalRow) toDomain() domain.Goal {
	return domain.Goal{
		ID: r.ID, UserID: r.UserID, Name: r.Name,
		Type: domain.GoalType(r.Type), AccountID: strVal(r.AccountID),
		TargetAmount: r.TargetAmount, InitialAmount: r.InitialAmount,
		TargetDate: r.TargetDate, Completed: r.Completed,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func goalRowFrom(g *domain.Goal) goalRow {
	return goalRow{
		ID: g.ID, UserID: g.UserID, Name: g.Name,
		Type: string(g.Type), AccountID: strPtr(g.AccountID),
		TargetAmount: g.TargetAmount, InitialAmount: g.InitialAmount,
		TargetDate: g.TargetDate, Completed: g.Completed,
	}
}

func (r *loanRow) toDomain() domain.Loan {
	return domain.Loan{
		ID: r.ID, UserID: r.UserID, Name: r.Name,
		TotalAmount: r.TotalAmount, RemainingAmount: r.RemainingAmount,
		InterestRate: r.InterestRate,
		Direction:    domain.LoanDirection(r.Direction), Status: domain.LoanStatus(r.Status),
		Counterparty: r.Counterparty, DueDate: r.DueDate,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func loanRowFrom(l *domain.Loan) loanRow {
	return loanRow{
		ID: l.ID, UserID: l.UserID, Name: l.Name,
		TotalAmount: l.TotalAmount, RemainingAmount: l.RemainingAmount,
		InterestRate: l.InterestRate,
		Direction:    string(l.Direction), Status: string(l.Status),
		Counterparty: l.Counterparty, DueDate: l.DueDate,
	}
}

func (r *budgetRow) toDomain() domain.Budget {
	return domain.Budget{
		ID: r.ID, UserID: r.UserID, CategoryID: r.CategoryID, Amount: r.Amount,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func budgetRowFrom(b *domain.Budget) budgetRow {
	return budgetRow{ID: b.ID, UserID: b.UserID, CategoryID: b.CategoryID, Amount: b.Amount}
}

func (r *userRow) toDomain() domain.User {
	return domain.User{
		ID: r.ID, Email: r.Email, Name: r.Name,
		PasswordHash: r.PasswordHash, CreatedAt: r.CreatedAt,
	}
}
