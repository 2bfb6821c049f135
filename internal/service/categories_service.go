package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ============================================================
// Categories
// ============================================================

// ListCategories returns the owner's categories sorted by name.
func (s *FinanceService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListCategories")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	return s.store.ListCategories(ctx, userID)
}

func (s *FinanceService) CreateCategory(ctx context.Context, userID string, input *domain.CategoryInput) (*domain.Category, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateCategory")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   strings.TrimSpace(input.Name),
		Color:  input.Color,
		Icon:   input.Icon,
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("category")
	s.logger.Info("category created", zap.String("user_id", userID), zap.String("category_id", category.ID))
	return category, nil
}

func (s *FinanceService) UpdateCategory(ctx context.Context, userID, categoryID string, input *domain.CategoryInput) (*domain.Category, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateCategory")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateCategoryInput(input); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:     categoryID,
		UserID: userID,
		Name:   strings.TrimSpace(input.Name),
		Color:  input.Color,
		Icon:   input.Icon,
	}
	if err := s.store.UpdateCategory(ctx, userID, category); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("category")
	return category, nil
}

// DeleteCategory removes the category, detaches it from any expenses
// and deletes the budget anchored to it.
func (s *FinanceService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteCategory")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteCategory(ctx, userID, categoryID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("category")
	s.logger.Info("category deleted", zap.String("user_id", userID), zap.String("category_id", categoryID))
	return nil
}

func validateCategoryInput(input *domain.CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if len(name) > maxCategoryNameLen {
		return &domain.ErrValidation{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxCategoryNameLen)}
	}
	if input.Color != "" && !colorRegex.MatchString(input.Color) {
		return &domain.ErrValidation{Field: "color", Message: "must be a hex color like #1A2B3C"}
	}
	if len(input.Icon) > maxIconLen {
		return &domain.ErrValidation{Field: "icon", Message: fmt.Sprintf("icon must be at most %d characters", maxIconLen)}
	}
	return nil
}
