package postgres

import (
	"context"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Subscriptions
// ============================================================

func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListSubscriptions")
	defer span.End()

	var rows []subscriptionRow
	err := s.run(ctx, "subscription", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("next_billing_date ASC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	out := make([]domain.Subscription, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *domain.Subscription) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateSubscription")
	defer span.End()

	row := subscriptionRowFrom(sub)
	err := s.run(ctx, "subscription", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	sub.CreatedAt = row.CreatedAt
	sub.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateSubscription(ctx context.Context, userID string, sub *domain.Subscription) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateSubscription")
	defer span.End()

	var affected int64
	err := s.run(ctx, "subscription", func(db *gorm.DB) error {
		res := db.Model(&subscriptionRow{}).
			Where("id = ? AND user_id = ?", sub.ID, userID).
			Updates(map[string]any{
				"name":              sub.Name,
				"amount":            sub.Amount,
				"billing_cycle":     string(sub.BillingCycle),
				"next_billing_date": sub.NextBillingDate,
				"status":            string(sub.Status),
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "subscription", ID: sub.ID}
	}
	return nil
}

func (s *Store) DeleteSubscription(ctx context.Context, userID, subID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteSubscription")
	defer span.End()

	var affected int64
	err := s.run(ctx, "subscription", func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", subID, userID).Delete(&subscriptionRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "subscription", ID: subID}
	}
	return nil
}
