package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Subscriptions
// ============================================================

// ListSubscriptions returns the owner's subscriptions ordered by next
// billing date.
func (s *FinanceService) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.ListSubscriptions")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	return s.store.ListSubscriptions(ctx, userID)
}

func (s *FinanceService) CreateSubscription(ctx context.Context, userID string, input *domain.SubscriptionInput) (*domain.Subscription, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.CreateSubscription")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateSubscriptionInput(input); err != nil {
		return nil, err
	}

	sub := &domain.Subscription{
		ID:              uuid.New().String(),
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		Amount:          input.Amount,
		BillingCycle:    input.BillingCycle,
		NextBillingDate: input.NextBillingDate,
		Status:          input.Status,
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("subscription")
	s.logger.Info("subscription created", zap.String("user_id", userID), zap.String("subscription_id", sub.ID))
	return sub, nil
}

func (s *FinanceService) UpdateSubscription(ctx context.Context, userID, subID string, input *domain.SubscriptionInput) (*domain.Subscription, error) {
	ctx, span := financeTracer.Start(ctx, "FinanceService.UpdateSubscription")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if err := validateSubscriptionInput(input); err != nil {
		return nil, err
	}

	sub := &domain.Subscription{
		ID:              subID,
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		Amount:          input.Amount,
		BillingCycle:    input.BillingCycle,
		NextBillingDate: input.NextBillingDate,
		Status:          input.Status,
	}
	if err := s.store.UpdateSubscription(ctx, userID, sub); err != nil {
		return nil, err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("subscription")
	return sub, nil
}

func (s *FinanceService) DeleteSubscription(ctx context.Context, userID, subID string) error {
	ctx, span := financeTracer.Start(ctx, "FinanceService.DeleteSubscription")
	defer span.End()

	if err := requireOwner(userID); err != nil {
		return err
	}

	if err := s.store.DeleteSubscription(ctx, userID, subID); err != nil {
		return err
	}

	s.invalidate(userID)
	s.metrics.IncrWrite("subscription")
	return nil
}

func validateSubscriptionInput(input *domain.SubscriptionInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLen {
		return &domain.ErrValidation{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLen)}
	}
	if input.Amount.IsNegative() {
		return &domain.ErrValidation{Field: "amount", Message: "must not be negative"}
	}
	switch input.BillingCycle {
	case domain.BillingMonthly, domain.BillingYearly:
	default:
		return &domain.ErrValidation{Field: "billingCycle", Message: "must be MONTHLY or YEARLY"}
	}
	if input.NextBillingDate.IsZero() {
		input.NextBillingDate = time.Now().UTC()
	}
	switch input.Status {
	case "":
		input.Status = domain.SubscriptionActive
	case domain.SubscriptionActive, domain.SubscriptionInactive:
	default:
		return &domain.ErrValidation{Field: "status", Message: "must be ACTIVE or INACTIVE"}
	}
	return nil
}
