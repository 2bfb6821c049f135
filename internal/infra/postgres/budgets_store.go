package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Budgets
// ============================================================

func (s *Store) ListBudgets(ctx context.Context, userID string) ([]domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListBudgets")
	defer span.End()

	var rows []budgetRow
	err := s.run(ctx, "budget", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]domain.Budget, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// GetBudgetByCategory returns the owner's budget for a category, or nil
// when none exists. Used by the create-as-upsert path.
func (s *Store) GetBudgetByCategory(ctx context.Context, userID, categoryID string) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetBudgetByCategory")
	defer span.End()

	var row budgetRow
	err := s.run(ctx, "budget", func(db *gorm.DB) error {
		return db.Where("user_id = ? AND category_id = ?", userID, categoryID).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget by category: %w", err)
	}

	budget := row.toDomain()
	return &budget, nil
}

func (s *Store) GetBudget(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetBudget")
	defer span.End()

	var row budgetRow
	err := s.run(ctx, "budget", func(db *gorm.DB) error {
		return db.Where("id = ? AND user_id = ?", budgetID, userID).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "budget", ID: budgetID}
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}

	budget := row.toDomain()
	return &budget, nil
}

func (s *Store) CreateBudget(ctx context.Context, budget *domain.Budget) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateBudget")
	defer span.End()

	row := budgetRowFrom(budget)
	err := s.run(ctx, "budget", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	budget.CreatedAt = row.CreatedAt
	budget.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateBudget(ctx context.Context, userID string, budget *domain.Budget) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateBudget")
	defer span.End()

	var affected int64
	err := s.run(ctx, "budget", func(db *gorm.DB) error {
		res := db.Model(&budgetRow{}).
			Where("id = ? AND user_id = ?", budget.ID, userID).
			Update("amount", budget.Amount)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "budget", ID: budget.ID}
	}
	return nil
}

func (s *Store) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteBudget")
	defer span.End()

	var affected int64
	err := s.run(ctx, "budget", func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", budgetID, userID).Delete(&budgetRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "budget", ID: budgetID}
	}
	return nil
}
