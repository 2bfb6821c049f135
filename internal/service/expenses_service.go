package service

import (
	"context"
	"strings"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Expenses
// ============================================================

// ListExpenses returns the owner's expenses, newest first.
func (s *FinanceService) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListExpenses")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, userID)
}

func (s *FinanceService) CreateExpense(ctx context.Context, userID string, input *domain.EntryInput) (*domain.Expense, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateExpense")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}
	if err := s.checkAccountRef(ctx, userID, input.AccountID); err != nil {
		return nil, err
	}
	if err := s.checkCategoryRef(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:         uuid.New().String(),
		UserID:     userID,
		AccountID:  input.AccountID,
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Amount:     input.Amount,
		Date:       input.Date,
		Notes:      input.Notes,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("expense")
	s.logger.Info("expense created", zap.String("user_id", userID), zap.String("expense_id", expense.ID))
	return expense, nil
}

func (s *FinanceService) UpdateExpense(ctx context.Context, userID, expenseID string, input *domain.EntryInput) (*domain.Expense, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateExpense")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateEntryInput(input); err != nil {
		return nil, err
	}
	if err := s.checkAccountRef(ctx, userID, input.AccountID); err != nil {
		return nil, err
	}
	if err := s.checkCategoryRef(ctx, userID, input.CategoryID); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:         expenseID,
		UserID:     userID,
		AccountID:  input.AccountID,
		CategoryID: input.CategoryID,
		Name:       strings.TrimSpace(input.Name),
		Amount:     input.Amount,
		Date:       input.Date,
		Notes:      input.Notes,
	}
	if err := s.store.UpdateExpense(ctx, userID, expense); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("expense")
	return expense, nil
}

func (s *FinanceService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteExpense")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteExpense(ctx, userID, expenseID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("expense")
	return nil
}

// checkCategoryRef confirms a non-empty category reference belongs to
// userID. Expenses may be uncategorized, so empty passes.
func (s *FinanceService) checkCategoryRef(ctx context.Context, userID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	owned, err := s.store.OwnsCategory(ctx, userID, categoryID)
	if err != nil {
		return err
	}
	if !owned {
		return &domain.ErrReference{Resource: "category", Message: "category does not exist"}
	}
	return nil
}
