package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Transfers
// ============================================================

func (s *Store) ListTransfers(ctx context.Context, userID string, limit int) ([]domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListTransfers")
	defer span.End()

	var rows []transferRow
	err := s.run(ctx, "transfer", func(db *gorm.DB) error {
		q := db.Where("user_id = ?", userID).Order("date DESC")
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q.Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	out := make([]domain.Transfer, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) ListAccountTransfers(ctx context.Context, userID, accountID string, limit int) ([]domain.Transfer, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListAccountTransfers")
	defer span.End()

	var rows []transferRow
	err := s.run(ctx, "transfer", func(db *gorm.DB) error {
		return db.Where("user_id = ? AND (from_account_id = ? OR to_account_id = ?)", userID, accountID, accountID).
			Order("date DESC").Limit(limit).Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list account transfers: %w", err)
	}

	out := make([]domain.Transfer, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// CreateTransfer validates both account references (and the optional
// goal reference) against the owner and inserts the row, all inside
// one transaction. Either everything holds or nothing is written.
func (s *Store) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateTransfer")
	defer span.End()

	row := transferRowFrom(transfer)
	err := s.run(ctx, "transfer", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := checkTransferRefs(tx, transfer); err != nil {
				return err
			}
			return tx.Create(&row).Error
		})
	})
	if err != nil {
		var refErr *domain.ErrReference
		if errors.As(err, &refErr) {
			return refErr
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	transfer.CreatedAt = row.CreatedAt
	transfer.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateTransfer(ctx context.Context, userID string, transfer *domain.Transfer) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateTransfer")
	defer span.End()

	var affected int64
	err := s.run(ctx, "transfer", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := checkTransferRefs(tx, transfer); err != nil {
				return err
			}
			res := tx.Model(&transferRow{}).
				Where("id = ? AND user_id = ?", transfer.ID, userID).
				Updates(map[string]any{
					"from_account_id": transfer.FromAccountID,
					"to_account_id":   transfer.ToAccountID,
					"goal_id":         strPtr(transfer.GoalID),
					"name":            transfer.Name,
					"amount":          transfer.Amount,
					"date":            transfer.Date,
				})
			affected = res.RowsAffected
			return res.Error
		})
	})
	if err != nil {
		var refErr *domain.ErrReference
		if errors.As(err, &refErr) {
			return refErr
		}
		return fmt.Errorf("update transfer: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "transfer", ID: transfer.ID}
	}
	return nil
}

func (s *Store) DeleteTransfer(ctx context.Context, userID, transferID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteTransfer")
	defer span.End()

	var affected int64
	err := s.run(ctx, "transfer", func(db *gorm.DB) error {
		res := db.Where("id = ? AND user_id = ?", transferID, userID).Delete(&transferRow{})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "transfer", ID: transferID}
	}
	return nil
}

// checkTransferRefs verifies, inside the caller's transaction, that
// both accounts (and the goal, when set) belong to the transfer owner.
func checkTransferRefs(tx *gorm.DB, transfer *domain.Transfer) error {
	var owned int64
	err := tx.Model(&accountRow{}).
		Where("user_id = ? AND id IN ?", transfer.UserID, []string{transfer.FromAccountID, transfer.ToAccountID}).
		Distinct("id").
		Count(&owned).Error
	if err != nil {
		return err
	}
	if owned != 2 {
		return &domain.ErrReference{Resource: "account", Message: "one or both accounts do not exist"}
	}

	if transfer.GoalID != "" {
		var goals int64
		err := tx.Model(&goalRow{}).
			Where("user_id = ? AND id = ?", transfer.UserID, transfer.GoalID).
			Count(&goals).Error
		if err != nil {
			return err
		}
		if goals == 0 {
			return &domain.ErrReference{Resource: "goal", Message: "goal does not exist"}
		}
	}
	return nil
}
