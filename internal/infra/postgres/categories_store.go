package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Categories
// ============================================================

func (s *Store) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListCategories")
	defer span.End()

	var rows []categoryRow
	err := s.run(ctx, "category", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("name ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]domain.Category, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateCategory")
	defer span.End()

	row := categoryRowFrom(category)
	err := s.run(ctx, "category", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	category.CreatedAt = row.CreatedAt
	category.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, userID string, category *domain.Category) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateCategory")
	defer span.End()

	var affected int64
	err := s.run(ctx, "category", func(db *gorm.DB) error {
		res := db.Model(&categoryRow{}).
			Where("id = ? AND user_id = ?", category.ID, userID).
			Updates(map[string]any{
				"name":  category.Name,
				"color": category.Color,
				"icon":  category.Icon,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "category", ID: category.ID}
	}
	return nil
}

// DeleteCategory removes the category, detaches it from expenses and
// drops any budget anchored to it, all in one transaction.
func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteCategory")
	defer span.End()

	err := s.run(ctx, "category", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ? AND user_id = ?", categoryID, userID).Delete(&categoryRow{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			if err := tx.Model(&expenseRow{}).
				Where("category_id = ?", categoryID).
				Update("category_id", nil).Error; err != nil {
				return err
			}
			return tx.Where("category_id = ?", categoryID).Delete(&budgetRow{}).Error
		})
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.ErrNotFound{Resource: "category", ID: categoryID}
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// OwnsCategory reports whether the category exists in the user's scope.
func (s *Store) OwnsCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Postgres.OwnsCategory")
	defer span.End()

	var count int64
	err := s.run(ctx, "category", func(db *gorm.DB) error {
		return db.Model(&categoryRow{}).
			Where("id = ? AND user_id = ?", categoryID, userID).
			Count(&count).Error
	})
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return count > 0, nil
}
