package postgres

import (
	"context"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Loans
// ============================================================

func (s *Store) ListLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListLoans")
	defer span.End()

	var rows []loanRow
	err := s.run(ctx, "loan", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("created_at DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	out := make([]domain.Loan, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateLoan")
	defer span.End()

	row := loanRowFrom(loan)
	err := s.run(ctx, "loan", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	loan.CreatedAt = row.CreatedAt
	loan.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateLoan(ctx context.Context, userID string, loan *domain.Loan) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateLoan")
	defer span.End()

	var affected int64
	err := s.run(ctx, "loan", func(db *gorm.DB) error {
		res := db.Model(&loanRow{}).
			Where("id = ? AND user_id = ?", loan.ID, userID).
			Updates(map[string]any{
				"name":             loan.Name,
				"total_amount":     loan.TotalAmount,
				"remaining_amount": loan.RemainingAmount,
				"interest_rate":    loan.InterestRate,
				"direction":        string(loan.Direction),
				"status":           string(loan.Status),
				"counterparty":     loan.Counterparty,
				"due_date":         loan.DueDate,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "loan", ID: loan.ID}
	}
	return nil
}

func (s *Store) DeleteLoan(ctx context.Context, userID, loanID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteLoan")
	defer span.End()

	var affected int64
	err := s.run(ctx, "loan", func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", loanID, userID).Delete(&loanRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "loan", ID: loanID}
	}
	return nil
}
