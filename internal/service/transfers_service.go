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
// Transfers
// ============================================================

// ListTransfers returns the owner's transfers, newest first. A limit
// of zero means the default page size.
func (s *FinanceService) ListTransfers(ctx context.Context, userID string, limit int) ([]domain.Transfer, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListTransfers")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTransferLimit
	}
	return s.store.ListTransfers(ctx, userID, limit)
}

// CreateTransfer validates the payload and persists the transfer; the
// store checks both account references (and the goal, if set) inside
// the same transaction, so a failed check persists nothing.
func (s *FinanceService) CreateTransfer(ctx context.Context, userID string, input *domain.TransferInput) (*domain.Transfer, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateTransfer")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateTransferInput(input); err != nil {
		return nil, err
	}
	if err := s.checkGoalRef(ctx, userID, input.GoalID); err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:            uuid.New().String(),
		UserID:        userID,
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		GoalID:        input.GoalID,
		Name:          strings.TrimSpace(input.Name),
		Amount:        input.Amount,
		Date:          input.Date,
	}
	if err := s.store.CreateTransfer(ctx, transfer); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("transfer")
	s.logger.Info("transfer created",
		zap.String("user_id", userID),
		zap.String("transfer_id", transfer.ID),
		zap.String("amount", transfer.Amount.String()),
	)
	return transfer, nil
}

func (s *FinanceService) UpdateTransfer(ctx context.Context, userID, transferID string, input *domain.TransferInput) (*domain.Transfer, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateTransfer")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateTransferInput(input); err != nil {
		return nil, err
	}
	if err := s.checkGoalRef(ctx, userID, input.GoalID); err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		ID:            transferID,
		UserID:        userID,
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		GoalID:        input.GoalID,
		Name:          strings.TrimSpace(input.Name),
		Amount:        input.Amount,
		Date:          input.Date,
	}
	if err := s.store.UpdateTransfer(ctx, userID, transfer); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("transfer")
	return transfer, nil
}

func (s *FinanceService) DeleteTransfer(ctx context.Context, userID, transferID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteTransfer")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteTransfer(ctx, userID, transferID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("transfer")
	return nil
}

// checkGoalRef confirms a non-empty goal reference belongs to userID.
// The store re-checks inside the write transaction; this gives the
// caller a clean ErrReference before any transaction starts.
func (s *FinanceService) checkGoalRef(ctx context.Context, userID, goalID string) error {
	if goalID == "" {
		return nil
	}
	owned, err := s.store.OwnsGoal(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if !owned {
		return &domain.ErrReference{Resource: "goal", Message: "goal does not exist"}
	}
	return nil
}

func validateTransferInput(input *domain.TransferInput) error {
	if input.FromAccountID == "" {
		return &domain.ErrValidation{Field: "fromAccountId", Message: "fromAccountId is required"}
	}
	if input.ToAccountID == "" {
		return &domain.ErrValidation{Field: "toAccountId", Message: "toAccountId is required"}
	}
	if input.FromAccountID == input.ToAccountID {
		return &domain.ErrValidation{Field: "toAccountId", Message: "source and destination must differ"}
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
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}
	return nil
}
