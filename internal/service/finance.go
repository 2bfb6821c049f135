package service

import (
	"context"

	"github.com/ledgerly/ledgerly-api/internal/domain"
	"github.com/ledgerly/ledgerly-api/internal/infra/observability"
	"github.com/ledgerly/ledgerly-api/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var financeTracer = otel.Tracer("service/finance")

const (
	maxNameLen         = 100
	maxCategoryNameLen = 50
	maxIconLen         = 50
	maxNotesLen        = 1000

	defaultTransferLimit   = 50
	recentActivityLimit    = 10
	dashboardTransferLimit = 5

	projectionCache = "projections"
)

// FinanceService owns all ledger entities and their derived views.
// Every method takes the owner's userID explicitly; nothing is read
// from ambient state.
type FinanceService struct {
	store   port.FinanceStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewFinanceService creates a new finance service.
func NewFinanceService(store port.FinanceStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *FinanceService {
	return &FinanceService{store: store, cache: cache, metrics: metrics, logger: logger}
}

// requireOwner rejects calls that arrive without an authenticated owner.
func requireOwner(userID string) error {
	if userID == "" {
		return &domain.ErrUnauthorized{Message: "missing user identity"}
	}
	return nil
}

// invalidate drops every cached projection for one user. Called after
// any successful write; projections are cheap to recompute.
func (s *FinanceService) invalidate(userID string) {
	s.cache.DeletePrefix(userID + ":")
}

// cachedProjection returns a previously computed projection of type T,
// counting hits and misses.
func cachedProjection[T any](s *FinanceService, key string) (T, bool) {
	var zero T
	v, ok := s.cache.Get(key)
	if !ok {
		s.metrics.IncrCacheMiss(projectionCache)
		return zero, false
	}
	out, ok := v.(T)
	if !ok {
		s.metrics.IncrCacheMiss(projectionCache)
		return zero, false
	}
	s.metrics.IncrCacheHit(projectionCache)
	return out, true
}

// Ping reports storage connectivity for readiness checks.
func (s *FinanceService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
