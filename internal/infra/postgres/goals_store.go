package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Goals
// ============================================================

// ListGoals orders active goals before completed ones, earliest target
// date first within each group.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListGoals")
	defer span.End()

	var rows []goalRow
	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).
			Order("completed ASC").Order("target_date ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	out := make([]domain.Goal, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) GetGoal(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetGoal")
	defer span.End()

	var row goalRow
	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		return db.Where("id = ? AND user_id = ?", goalID, userID).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}

	goal := row.toDomain()
	return &goal, nil
}

func (s *Store) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateGoal")
	defer span.End()

	row := goalRowFrom(goal)
	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	goal.CreatedAt = row.CreatedAt
	goal.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID string, goal *domain.Goal) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateGoal")
	defer span.End()

	var affected int64
	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		res := db.Model(&goalRow{}).
			Where("id = ? AND user_id = ?", goal.ID, userID).
			Updates(map[string]any{
				"name":           goal.Name,
				"type":           string(goal.Type),
				"account_id":     strPtr(goal.AccountID),
				"target_amount":  goal.TargetAmount,
				"initial_amount": goal.InitialAmount,
				"target_date":    goal.TargetDate,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "goal", ID: goal.ID}
	}
	return nil
}

func (s *Store) SetGoalCompleted(ctx context.Context, userID, goalID string, completed bool) error {
	ctx, span := tracer.Start(ctx, "Postgres.SetGoalCompleted")
	defer span.End()

	var affected int64
	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		res := db.Model(&goalRow{}).
			Where("id = ? AND user_id = ?", goalID, userID).
			Update("completed", completed)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("set goal completed: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	return nil
}

// DeleteGoal removes the goal and detaches it from transfers; the
// transfers themselves survive, they just stop counting toward any goal.
func (s *Store) DeleteGoal(ctx context.Context, userID, goalID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteGoal")
	defer span.End()

	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ? AND user_id = ?", goalID, userID).Delete(&goalRow{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			return tx.Model(&transferRow{}).
				Where("goal_id = ?", goalID).
				Update("goal_id", nil).Error
		})
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.ErrNotFound{Resource: "goal", ID: goalID}
	}
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

// OwnsGoal reports whether the goal exists in the user's scope.
func (s *Store) OwnsGoal(ctx context.Context, userID, goalID string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Postgres.OwnsGoal")
	defer span.End()

	var count int64
	err := s.run(ctx, "goal", func(db *gorm.DB) error {
		return db.Model(&goalRow{}).
			Where("id = ? AND user_id = ?", goalID, userID).
			Count(&count).Error
	})
	if err != nil {
		return false, fmt.Errorf("check goal: %w", err)
	}
	return count > 0, nil
}
