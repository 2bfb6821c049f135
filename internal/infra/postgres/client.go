// Package postgres implements the storage ports on PostgreSQL via GORM.
// Every query runs owner-filtered; the derived views are computed in the
// domain layer from snapshots fetched here.
package postgres

import (
	"context"
	"errors"

	"github.com/ledgerly/ledgerly-api/internal/domain"
	"github.com/ledgerly/ledgerly-api/internal/infra/observability"
	"github.com/ledgerly/ledgerly-api/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var tracer = otel.Tracer("postgres")

// Store wraps a GORM connection with the resilience stack.
type Store struct {
	db       *gorm.DB
	cb       *gobreaker.CircuitBreaker
	cfg      resilience.Config
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// Open connects to PostgreSQL and runs migrations.
func Open(dsn string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:       db,
		cb:       cb,
		cfg:      cfg,
		bulkhead: resilience.NewBulkhead(cfg.MaxConcurrency),
		metrics:  metrics,
		logger:   logger,
	}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate auto-migrates each table, logging (not failing) per-table
// problems so a partially provisioned database still comes up.
func (s *Store) migrate() error {
	models := []any{
		&userRow{},
		&refreshTokenRow{},
		&accountRow{},
		&categoryRow{},
		&incomeRow{},
		&expenseRow{},
		&transferRow{},
		&subscriptionRow{},
		&goalRow{},
		&loanRow{},
		&budgetRow{},
	}
	for _, m := range models {
		if err := s.db.AutoMigrate(m); err != nil {
			s.logger.Warn("postgres: migration warning", zap.Error(err))
		}
	}
	return nil
}

// run executes fn through the bulkhead, circuit breaker and retry
// policy. Not-found and reference failures are answers, not storage
// faults, so they bypass the breaker and are handed back for the
// caller to map.
func (s *Store) run(ctx context.Context, entity string, fn func(db *gorm.DB) error) error {
	if err := s.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer s.bulkhead.Release()

	var benign error
	op := func() error {
		err := fn(s.db.WithContext(ctx))
		if err == nil {
			return nil
		}
		var refErr *domain.ErrReference
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.As(err, &refErr) {
			benign = err
			return nil
		}
		return err
	}

	_, err := s.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, s.cfg, op)
	})
	if err != nil {
		s.metrics.IncrStoreError(entity)
		s.logger.Error("postgres: query failed",
			zap.String("entity", entity),
			zap.Error(err),
		)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &domain.ErrCircuitOpen{Service: "postgres"}
		}
		return err
	}
	return benign
}

// Ping checks connectivity for health reporting.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
