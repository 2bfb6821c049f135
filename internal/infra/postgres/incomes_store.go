package postgres

import (
	"context"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Incomes
// ============================================================

func (s *Store) ListIncomes(ctx context.Context, userID string) ([]domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListIncomes")
	defer span.End()

	var rows []incomeRow
	err := s.run(ctx, "income", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("date DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}

	out := make([]domain.Income, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) ListAccountIncomes(ctx context.Context, userID, accountID string, limit int) ([]domain.Income, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListAccountIncomes")
	defer span.End()

	var rows []incomeRow
	err := s.run(ctx, "income", func(db *gorm.DB) error {
		return db.Where("user_id = ? AND account_id = ?", userID, accountID).
			Order("date DESC").Limit(limit).Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list account incomes: %w", err)
	}

	out := make([]domain.Income, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateIncome(ctx context.Context, income *domain.Income) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateIncome")
	defer span.End()

	row := incomeRowFrom(income)
	err := s.run(ctx, "income", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	income.CreatedAt = row.CreatedAt
	income.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateIncome(ctx context.Context, userID string, income *domain.Income) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateIncome")
	defer span.End()

	var affected int64
	err := s.run(ctx, "income", func(db *gorm.DB) error {
		res := db.Model(&incomeRow{}).
			Where("id = ? AND user_id = ?", income.ID, userID).
			Updates(map[string]any{
				"account_id": income.AccountID,
				"name":       income.Name,
				"amount":     income.Amount,
				"date":       income.Date,
				"notes":      income.Notes,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "income", ID: income.ID}
	}
	return nil
}

func (s *Store) DeleteIncome(ctx context.Context, userID, incomeID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteIncome")
	defer span.End()

	var affected int64
	err := s.run(ctx, "income", func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", incomeID, userID).Delete(&incomeRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "income", ID: incomeID}
	}
	return nil
}
