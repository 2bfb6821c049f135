package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Incomes
// ============================================================

// ListIncomes returns the owner's incomes, newest first.
func (s *FinanceService) ListIncomes(ctx context.Context, userID string) ([]domain.Income, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListIncomes")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	return s.store.ListIncomes(ctx, userID)
}

func (s *FinanceService) CreateIncome(ctx context.Context, userID string, input *domain.EntryInput) (*domain.Income, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateIncome")
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

	income := &domain.Income{
		ID:        uuid.New().String(),
		UserID:    userID,
		AccountID: input.AccountID,
		Name:      strings.TrimSpace(input.Name),
		Amount:    input.Amount,
		Date:      input.Date,
		Notes:     input.Notes,
	}
	if err := s.store.CreateIncome(ctx, income); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("income")
	s.logger.Info("income created", zap.String("user_id", userID), zap.String("income_id", income.ID))
	return income, nil
}

func (s *FinanceService) UpdateIncome(ctx context.Context, userID, incomeID string, input *domain.EntryInput) (*domain.Income, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateIncome")
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

	income := &domain.Income{
		ID:        incomeID,
		UserID:    userID,
		AccountID: input.AccountID,
		Name:      strings.TrimSpace(input.Name),
		Amount:    input.Amount,
		Date:      input.Date,
		Notes:     input.Notes,
	}
	if err := s.store.UpdateIncome(ctx, userID, income); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("income")
	return income, nil
}

func (s *FinanceService) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteIncome")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteIncome(ctx, userID, incomeID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("income")
	return nil
}

// ============================================================
// Shared entry helpers
// ============================================================

// checkAccountRef confirms the account exists and belongs to userID.
// A missing or foreign account is the same referential error; no
// existence information leaks across owners.
func (s *FinanceService) checkAccountRef(ctx context.Context, userID, accountID string) error {
	owned, err := s.store.CountOwnedAccounts(ctx, userID, []string{accountID})
	if err != nil {
		return err
	}
	if owned != 1 {
		return &domain.ErrReference{Resource: "account", Message: "account does not exist"}
	}
	return nil
}

func validateEntryInput(input *domain.EntryInput) error {
	if input.AccountID == "" {
		return &domain.ErrValidation{Field: "accountId", Message: "accountId is required"}
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLen {
		return &domain.ErrValidation{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLen)}
	}
	if !input.Amount.IsPositive() {
		return &domain.ErrValidation{Field: "amount", Message: "must be positive"}
	}
	if len(input.Notes) > maxNotesLen {
		return &domain.ErrValidation{Field: "notes", Message: fmt.Sprintf("notes must be at most %d characters", maxNotesLen)}
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}
	return nil
}
