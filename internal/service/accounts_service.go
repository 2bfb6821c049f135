package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Accounts
// ============================================================

// ListAccounts returns the owner's accounts with derived balances,
// newest first.
func (s *FinanceService) ListAccounts(ctx context.Context, userID string) ([]domain.AccountBalance, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListAccounts")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	key := userID + ":balances"
	if cached, ok := cachedProjection[[]domain.AccountBalance](s, key); ok {
		return cached, nil
	}

	balances, err := s.loadBalances(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, balances)
	return balances, nil
}

// GetAccount returns one account with its balance and recent activity.
func (s *FinanceService) GetAccount(ctx context.Context, userID, accountID string) (*domain.AccountDetail, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetAccount")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	account, err := s.store.GetAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		incomes   []domain.Income
		expenses  []domain.Expense
		transfers []domain.Transfer
		balances  []domain.AccountBalance
	)
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListAccountIncomes(gctx, userID, accountID, recentActivityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListAccountExpenses(gctx, userID, accountID, recentActivityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = s.store.ListAccountTransfers(gctx, userID, accountID, recentActivityLimit)
		return err
	})
	g.Go(func() error {
		var err error
		balances, err = s.loadBalances(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &domain.AccountDetail{
		AccountBalance: domain.AccountBalance{
			Account:        *account,
			CurrentBalance: account.InitialAmount,
		},
		RecentIncomes:   incomes,
		RecentExpenses:  expenses,
		RecentTransfers: transfers,
	}
	for _, b := range balances {
		if b.ID == accountID {
			detail.CurrentBalance = b.CurrentBalance
			break
		}
	}
	return detail, nil
}

func (s *FinanceService) CreateAccount(ctx context.Context, userID string, input *domain.AccountInput) (*domain.Account, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateAccount")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateAccountInput(input); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		InitialAmount: input.InitialAmount,
		Date:          input.Date,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("account")
	s.logger.Info("account created", zap.String("user_id", userID), zap.String("account_id", account.ID))
	return account, nil
}

func (s *FinanceService) UpdateAccount(ctx context.Context, userID, accountID string, input *domain.AccountInput) (*domain.Account, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateAccount")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateAccountInput(input); err != nil {
		return nil, err
	}

	account := &domain.Account{
		ID:            accountID,
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		InitialAmount: input.InitialAmount,
		Date:          input.Date,
	}
	if err := s.store.UpdateAccount(ctx, userID, account); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("account")
	return s.store.GetAccount(ctx, userID, accountID)
}

// DeleteAccount removes the account and everything attached to it:
// its incomes, its expenses, and any transfer touching it.
func (s *FinanceService) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteAccount")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteAccount(ctx, userID, accountID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("account")
	s.logger.Info("account deleted", zap.String("user_id", userID), zap.String("account_id", accountID))
	return nil
}

// loadBalances fetches the full snapshot for one owner and computes
// every account balance from it.
func (s *FinanceService) loadBalances(ctx context.Context, userID string) ([]domain.AccountBalance, error) {
	g, gctx := errgroup.WithContext(ctx)
	var (
		accounts  []domain.Account
		incomes   []domain.Income
		expenses  []domain.Expense
		transfers []domain.Transfer
	)
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.store.ListIncomes(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.store.ListExpenses(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = s.store.ListTransfers(gctx, userID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.ComputeBalances(accounts, incomes, expenses, transfers), nil
}

func validateAccountInput(input *domain.AccountInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLen {
		return &domain.ErrValidation{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLen)}
	}
	if input.InitialAmount.IsNegative() {
		return &domain.ErrValidation{Field: "initialAmount", Message: "must not be negative"}
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}
	return nil
}
