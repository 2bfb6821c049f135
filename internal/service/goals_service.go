package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================
// Goals
// ============================================================

// ListGoals returns the owner's goals with derived funding progress,
// active goals before completed ones.
func (s *FinanceService) ListGoals(ctx context.Context, userID string) ([]domain.GoalProgress, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListGoals")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	key := userID + ":goals"
	if cached, ok := cachedProjection[[]domain.GoalProgress](s, key); ok {
		return cached, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	var (
		goals     []domain.Goal
		transfers []domain.Transfer
	)
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		transfers, err = s.store.ListTransfers(gctx, userID, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress := domain.ComputeGoalProgress(goals, transfers)
	s.cache.Set(key, progress)
	return progress, nil
}

// GetGoal returns one goal with its funding progress.
func (s *FinanceService) GetGoal(ctx context.Context, userID, goalID string) (*domain.GoalProgress, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.GetGoal")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.store.ListTransfers(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	progress := domain.ComputeGoalProgress([]domain.Goal{*goal}, transfers)
	return &progress[0], nil
}

func (s *FinanceService) CreateGoal(ctx context.Context, userID string, input *domain.GoalInput) (*domain.Goal, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateGoal")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}
	if input.AccountID != "" {
		if err := s.checkAccountRef(ctx, userID, input.AccountID); err != nil {
			return nil, err
		}
	}

	goal := &domain.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Type:          input.Type,
		AccountID:     input.AccountID,
		TargetAmount:  input.TargetAmount,
		InitialAmount: input.InitialAmount,
		TargetDate:    input.TargetDate,
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("goal")
	s.logger.Info("goal created", zap.String("user_id", userID), zap.String("goal_id", goal.ID))
	return goal, nil
}

func (s *FinanceService) UpdateGoal(ctx context.Context, userID, goalID string, input *domain.GoalInput) (*domain.Goal, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateGoal")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateGoalInput(input); err != nil {
		return nil, err
	}
	if input.AccountID != "" {
		if err := s.checkAccountRef(ctx, userID, input.AccountID); err != nil {
			return nil, err
		}
	}

	goal := &domain.Goal{
		ID:            goalID,
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		Type:          input.Type,
		AccountID:     input.AccountID,
		TargetAmount:  input.TargetAmount,
		InitialAmount: input.InitialAmount,
		TargetDate:    input.TargetDate,
	}
	if err := s.store.UpdateGoal(ctx, userID, goal); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("goal")
	return s.store.GetGoal(ctx, userID, goalID)
}

// SetGoalCompleted toggles the manual completion flag. Reaching the
// target never flips it on its own.
func (s *FinanceService) SetGoalCompleted(ctx context.Context, userID, goalID string, completed bool) (*domain.Goal, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.SetGoalCompleted")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}

	if err := s.store.SetGoalCompleted(ctx, userID, goalID, completed); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("goal")
	s.logger.Info("goal completion set",
		zap.String("user_id", userID),
		zap.String("goal_id", goalID),
		zap.Bool("completed", completed),
	)
	return s.store.GetGoal(ctx, userID, goalID)
}

// DeleteGoal removes the goal and detaches it from any transfers that
// funded it; the transfers themselves survive.
func (s *FinanceService) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteGoal")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteGoal(ctx, userID, goalID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("goal")
	return nil
}

func validateGoalInput(input *domain.GoalInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLen {
		return &domain.ErrValidation{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLen)}
	}
	switch input.Type {
	case domain.GoalSavings, domain.GoalInvestment, domain.GoalRevenueTarget:
	default:
		return &domain.ErrValidation{Field: "type", Message: "must be SAVINGS, INVESTMENT or REVENUE_TARGET"}
	}
	if !input.TargetAmount.IsPositive() {
		return &domain.ErrValidation{Field: "targetAmount", Message: "must be positive"}
	}
	if input.InitialAmount.IsNegative() {
		return &domain.ErrValidation{Field: "initialAmount", Message: "must not be negative"}
	}
	if input.TargetDate.IsZero() {
		return &domain.ErrValidation{Field: "targetDate", Message: "targetDate is required"}
	}
	return nil
}
