package service

import (
	"context"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Dashboard
// ============================================================

// GetDashboard assembles the aggregate home view: balances, recent
// transfers, budget usage, loans, subscriptions and the headline
// totals, all computed from one snapshot of the owner's data.
func (s *FinanceService) GetDashboard(ctx context.Context, userID string) (*domain.DashboardSummary, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetDashboard")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	key := userID + ":dashboard"
	if cached, ok := cachedProjection[*domain.DashboardSummary](s, key); ok {
		return cached, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		accounts      []domain.Account
		incomes       []domain.Income
		expenses      []domain.Expense
		transfers     []domain.Transfer
		budgets       []domain.Budget
		categories    []domain.Category
		loans         []domain.Loan
		subscriptions []domain.Subscription
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
	g.Go(func() error {
		var err error
		budgets, err = s.store.ListBudgets(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		loans, err = s.store.ListLoans(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		subscriptions, err = s.store.ListSubscriptions(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	balances := domain.ComputeBalances(accounts, incomes, expenses, transfers)

	totalBalance := domain.Zero()
	for _, b := range balances {
		totalBalance = totalBalance.Add(b.CurrentBalance)
	}

	totalDebt := domain.Zero()
	for _, l := range loans {
		if l.Direction == domain.LoanPayable && l.Status == domain.LoanActive {
			totalDebt = totalDebt.Add(l.RemainingAmount)
		}
	}

	monthlyCost := domain.Zero()
	for _, sub := range subscriptions {
		if sub.Status == domain.SubscriptionActive {
			monthlyCost = monthlyCost.Add(sub.MonthlyCost())
		}
	}

	recent := transfers
	if len(recent) > dashboardTransferLimit {
		recent = recent[:dashboardTransferLimit]
	}

	summary := &domain.DashboardSummary{
		Accounts:                balances,
		RecentTransfers:         recent,
		Budgets:                 domain.ComputeBudgetUsage(budgets, categories, expenses, time.Now().UTC()),
		Loans:                   loans,
		Subscriptions:           subscriptions,
		TotalBalance:            totalBalance,
		TotalDebt:               totalDebt,
		MonthlySubscriptionCost: monthlyCost,
	}

	s.cache.Set(key, summary)
	return summary, nil
}
