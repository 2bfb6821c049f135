package postgres

import (
	"context"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Expenses
// ============================================================

func (s *Store) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListExpenses")
	defer span.End()

	var rows []expenseRow
	err := s.run(ctx, "expense", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("date DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	out := make([]domain.Expense, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) ListAccountExpenses(ctx context.Context, userID, accountID string, limit int) ([]domain.Expense, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListAccountExpenses")
	defer span.End()

	var rows []expenseRow
	err := s.run(ctx, "expense", func(db *gorm.DB) error {
		return db.Where("user_id = ? AND account_id = ?", userID, accountID).
			Order("date DESC").Limit(limit).Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list account expenses: %w", err)
	}

	out := make([]domain.Expense, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateExpense")
	defer span.End()

	row := expenseRowFrom(expense)
	err := s.run(ctx, "expense", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	expense.CreatedAt = row.CreatedAt
	expense.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, userID string, expense *domain.Expense) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateExpense")
	defer span.End()

	var affected int64
	err := s.run(ctx, "expense", func(db *gorm.DB) error {
		res := db.Model(&expenseRow{}).
			Where("id = ? AND user_id = ?", expense.ID, userID).
			Updates(map[string]any{
				"account_id":  expense.AccountID,
				"category_id": strPtr(expense.CategoryID),
				"name":        expense.Name,
				"amount":      expense.Amount,
				"date":        expense.Date,
				"notes":       expense.Notes,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "expense", ID: expense.ID}
	}
	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteExpense")
	defer span.End()

	var affected int64
	err := s.run(ctx, "expense", func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&expenseRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "expense", ID: expenseID}
	}
	return nil
}
