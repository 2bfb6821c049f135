package service

import (
	"context"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Budgets
// ============================================================

// ListBudgets returns the owner's budgets with current-month spend.
func (s *FinanceService) ListBudgets(ctx context.Context, userID string) ([]domain.BudgetUsage, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListBudgets")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	key := userID + ":budgets"
	if cached, ok := cachedProjection[[]domain.BudgetUsage](s, key); ok {
		return cached, nil
	}

	usage, err := s.loadBudgetUsage(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, usage)
	return usage, nil
}

// CreateBudget upserts: a second budget for the same category replaces
// the first one's amount instead of conflicting.
func (s *FinanceService) CreateBudget(ctx context.Context, userID string, input *domain.BudgetInput) (*domain.Budget, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateBudget")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateBudgetInput(input); err != nil {
		return nil, err
	}
	if err := s.checkCategoryRef(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetBudgetByCategory(ctx, userID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Amount = input.Amount
		if err := s.store.UpdateBudget(ctx, userID, existing); err != nil {
			return nil, err
		}
		s.invalidate(userID)
		s.metrics.IncrWrite("budget")
		return existing, nil
	}

	budget := &domain.Budget{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("budget")
	s.logger.Info("budget created", zap.String("user_id", userID), zap.String("budget_id", budget.ID))
	return budget, nil
}

// UpdateBudget changes the cap amount; the category anchor is fixed
// for the budget's lifetime.
func (s *FinanceService) UpdateBudget(ctx context.Context, userID, budgetID string, input *domain.BudgetInput) (*domain.Budget, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateBudget")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if input.Amount.IsNegative() {
		return nil, &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}

	budget := &domain.Budget{
		ID:     budgetID,
		UserID: userID,
		Amount: input.Amount,
	}
	if err := s.store.UpdateBudget(ctx, userID, budget); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("budget")
	return s.store.GetBudget(ctx, userID, budgetID)
}

func (s *FinanceService) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteBudget")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteBudget(ctx, userID, budgetID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("budget")
	return nil
}

func (s *FinanceService) loadBudgetUsage(ctx context.Context, userID string) ([]domain.BudgetUsage, error) {
	g, gctx := errgroup.WithContext(ctx)
	var (
		budgets    []domain.Budget
		categories []domain.Category
		expenses   []domain.Expense
	)
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
		expenses, err = s.store.ListExpenses(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return domain.ComputeBudgetUsage(budgets, categories, expenses, time.Now().UTC()), nil
}

func validateBudgetInput(input *domain.BudgetInput) error {
	if input.CategoryID == "" {
		return &domain.ErrValidation{Field: "categoryId", Message: "categoryId is required"}
	}
	if input.Amount.IsNegative() {
		return &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}
	return nil
}
