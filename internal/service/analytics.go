package service

import (
	"context"
	"time"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/telemetry"
)

const (
	// DefaultTrendingLimit is the number of queries returned when the caller
	// does not ask for a count.
	DefaultTrendingLimit = 10

	// MaxTrendingLimit caps the trending report size.
	MaxTrendingLimit = 100
)

// TrendingRepositoryInterface aggregates the search log.
type TrendingRepositoryInterface interface {
	Trending(ctx context.Context, tenantID string, limit int) ([]domain.TrendingQuery, error)
	CountSince(ctx context.Context, tenantID string, since time.Time) (int, error)
}

// StatsRepositoryInterface supplies the remaining dashboard counters.
type StatsRepositoryInterface interface {
	CountAccounts(ctx context.Context, tenantID string) (int, error)
	CountActiveSubscriptions(ctx context.Context, tenantID string) (int, error)
	SumActiveSubscriptionCents(ctx context.Context, tenantID string) (int64, error)
}

// AnalyticsService reads already-committed log and subscription data. It
// never mutates anything, and it never swallows a failed read.
type AnalyticsService struct {
	trendingRepo TrendingRepositoryInterface
	statsRepo    StatsRepositoryInterface
	now          func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService(trendingRepo TrendingRepositoryInterface, statsRepo StatsRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{
		trendingRepo: trendingRepo,
		statsRepo:    statsRepo,
		now:          time.Now,
	}
}

// NewAnalyticsServiceWithClock creates an AnalyticsService with a custom
// clock (for testing)
func NewAnalyticsServiceWithClock(trendingRepo TrendingRepositoryInterface, statsRepo StatsRepositoryInterface, now func() time.Time) *AnalyticsService {
	return &AnalyticsService{
		trendingRepo: trendingRepo,
		statsRepo:    statsRepo,
		now:          now,
	}
}

// Trending returns the tenant's most frequent queries, most frequent first.
// Ties break lexicographically on the query text so repeated calls with no
// intervening searches return identical output.
func (s *AnalyticsService) Trending(ctx context.Context, tenantID string, topN int) ([]domain.TrendingQuery, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnalyticsService.Trending", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "trending",
	})
	defer span.End()

	if tenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	if topN <= 0 {
		topN = DefaultTrendingLimit
	}
	if topN > MaxTrendingLimit {
		topN = MaxTrendingLimit
	}

	trends, err := s.trendingRepo.Trending(ctx, tenantID, topN)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("trending aggregation", err)
	}
	return trends, nil
}

// DashboardStats summarizes the tenant's directory. "Today" means the UTC
// calendar day; the upstream implementation used naive local midnight.
func (s *AnalyticsService) DashboardStats(ctx context.Context, tenantID string) (*domain.DashboardStats, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnalyticsService.DashboardStats", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "dashboard",
	})
	defer span.End()

	if tenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	totalAccounts, err := s.statsRepo.CountAccounts(ctx, tenantID)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("account count", err)
	}

	activeSubs, err := s.statsRepo.CountActiveSubscriptions(ctx, tenantID)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("subscription count", err)
	}

	midnight := s.now().UTC().Truncate(24 * time.Hour)
	searchesToday, err := s.trendingRepo.CountSince(ctx, tenantID, midnight)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("search count", err)
	}

	mrr, err := s.statsRepo.SumActiveSubscriptionCents(ctx, tenantID)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("mrr sum", err)
	}

	return &domain.DashboardStats{
		TotalAccounts:       totalAccounts,
		ActiveSubscriptions: activeSubs,
		SearchesToday:       searchesToday,
		MRRCents:            mrr,
	}, nil
}
