package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Loans
// ============================================================

// ListLoans returns the owner's loans, newest first.
func (s *FinanceService) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListLoans")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	return s.store.ListLoans(ctx, userID)
}

func (s *FinanceService) CreateLoan(ctx context.Context, userID string, input *domain.LoanInput) (*domain.Loan, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateLoan")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateLoanInput(input); err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		TotalAmount:     input.TotalAmount,
		RemainingAmount: input.RemainingAmount,
		InterestRate:    input.InterestRate,
		Direction:       input.Direction,
		Status:          input.Status,
		Counterparty:    input.Counterparty,
		DueDate:         input.DueDate,
	}
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("loan")
	s.logger.Info("loan created", zap.String("user_id", userID), zap.String("loan_id", loan.ID))
	return loan, nil
}

func (s *FinanceService) UpdateLoan(ctx context.Context, userID, loanID string, input *domain.LoanInput) (*domain.Loan, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateLoan")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateLoanInput(input); err != nil {
		return nil, err
	}

	loan := &domain.Loan{
		ID:              loanID,
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		TotalAmount:     input.TotalAmount,
		RemainingAmount: input.RemainingAmount,
		InterestRate:    input.InterestRate,
		Direction:       input.Direction,
		Status:          input.Status,
		Counterparty:    input.Counterparty,
		DueDate:         input.DueDate,
	}
	if err := s.store.UpdateLoan(ctx, userID, loan); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("loan")
	return loan, nil
}

func (s *FinanceService) DeleteLoan(ctx context.Context, userID, loanID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteLoan")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteLoan(ctx, userID, loanID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("loan")
	return nil
}

func validateLoanInput(input *domain.LoanInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLen {
		return &domain.ErrValidation{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLen)}
	}
	if input.TotalAmount.IsNegative() {
		return &domain.ErrValidation{Field: "totalAmount", Message: "must not be negative"}
	}
	if input.RemainingAmount.IsNegative() {
		return &domain.ErrValidation{Field: "remainingAmount", Message: "must not be negative"}
	}
	if input.InterestRate != nil && *input.InterestRate < 0 {
		return &domain.ErrValidation{Field: "interestRate", Message: "must not be negative"}
	}
	switch input.Direction {
	case domain.LoanPayable, domain.LoanReceivable:
	default:
		return &domain.ErrValidation{Field: "direction", Message: "must be PAYABLE or RECEIVABLE"}
	}
	switch input.Status {
	case "":
		input.Status = domain.LoanActive
	case domain.LoanActive, domain.LoanPaid, domain.LoanClosed:
	default:
		return &domain.ErrValidation{Field: "status", Message: "must be ACTIVE, PAID or CLOSED"}
	}
	return nil
}
