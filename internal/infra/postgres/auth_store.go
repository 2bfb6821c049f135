package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ledgerly/ledgerly-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Users & refresh tokens
// ============================================================

// GetUserByEmail returns nil (not an error) when no user matches, so
// the caller can distinguish "unknown email" from a storage fault.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetUserByEmail")
	defer span.End()

	var row userRow
	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Where("email = ?", email).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	user := row.toDomain()
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetUserByID")
	defer span.End()

	var row userRow
	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Where("id = ?", userID).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ErrNotFound{Resource: "user", ID: userID}
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user := row.toDomain()
	return &user, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "Postgres.CreateUser")
	defer span.End()

	row := userRow{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
	}
	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Postgres.StoreRefreshToken")
	defer span.End()

	row := refreshTokenRow{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

func (s *Store) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetRefreshToken")
	defer span.End()

	var row refreshTokenRow
	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Where("token_hash = ? AND revoked = false", tokenHash).First(&row).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get refresh token: %w", err)
	}

	return &domain.RefreshToken{
		ID:        row.ID,
		UserID:    row.UserID,
		TokenHash: row.TokenHash,
		ExpiresAt: row.ExpiresAt,
		Revoked:   row.Revoked,
	}, nil
}

func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Postgres.RevokeRefreshToken")
	defer span.End()

	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Model(&refreshTokenRow{}).
			Where("token_hash = ?", tokenHash).
			Update("revoked", true).Error
	})
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (s *Store) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Postgres.RevokeAllRefreshTokens")
	defer span.End()

	err := s.run(ctx, "user", func(db *gorm.DB) error {
		return db.Model(&refreshTokenRow{}).
			Where("user_id = ? AND revoked = false", userID).
			Update("revoked", true).Error
	})
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}
