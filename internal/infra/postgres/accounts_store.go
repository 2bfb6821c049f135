package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

func (s *Store) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Postgres.ListAccounts")
	defer span.End()

	var rows []accountRow
	err := s.run(ctx, "account", func(db *gorm.DB) error {
		return db.Where("user_id = ?", userID).Order("date DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]domain.Account, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetAccount")
	defer span.End()

	var row accountRow
	err := s.run(ctx, "account", func(db *gorm.DB) error {
		return db.Where("id = ? AND user_id = ?", accountID, userID).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	account := row.toDomain()
	return &account, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateAccount")
	defer span.End()

	row := accountRowFrom(account)
	err := s.run(ctx, "account", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	account.CreatedAt = row.CreatedAt
	account.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, userID string, account *domain.Account) error {
	ctx, span := tracer.Start(ctx, "Postgres.UpdateAccount")
	defer span.End()

	var affected int64
	err := s.run(ctx, "account", func(db *gorm.DB) error {
		res := db.Model(&accountRow{}).
			Where("id = ? AND user_id = ?", account.ID, userID).
			Updates(map[string]any{
				"name":           account.Name,
				"initial_amount": account.InitialAmount,
				"date":           account.Date,
			})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if affected == 0 {
		return &domain.ErrNotFound{Resource: "account", ID: account.ID}
	}
	return nil
}

// DeleteAccount removes the account and everything hanging off it.
// The cascade is explicit and runs in one transaction: incomes,
// expenses and transfers touching the account go with it.
func (s *Store) DeleteAccount(ctx context.Context, userID, accountID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.DeleteAccount")
	defer span.End()

	err := s.run(ctx, "account", func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			res := tx.Where("id = ? AND user_id = ?", accountID, userID).Delete(&accountRow{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			if err := tx.Where("account_id = ?", accountID).Delete(&incomeRow{}).Error; err != nil {
				return err
			}
			if err := tx.Where("account_id = ?", accountID).Delete(&expenseRow{}).Error; err != nil {
				return err
			}
			return tx.Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
				Delete(&transferRow{}).Error
		})
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.ErrNotFound{Resource: "account", ID: accountID}
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// CountOwnedAccounts reports how many of the given IDs belong to the user.
func (s *Store) CountOwnedAccounts(ctx context.Context, userID string, accountIDs []string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Postgres.CountOwnedAccounts")
	defer span.End()

	var count int64
	err := s.run(ctx, "account", func(db *gorm.DB) error {
		return db.Model(&accountRow{}).
			Where("user_id = ? AND id IN ?", userID, accountIDs).
			Distinct("id").
			Count(&count).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}
