package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository runs the dashboard counters. Read-only.
type StatsRepository struct {
	db dbtx
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: pool}
}

func (r *StatsRepository) CountAccounts(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM accounts WHERE tenant_id = $1`,
		tenantID,
	).Scan(&count)
	return count, err
}

func (r *StatsRepository) CountActiveSubscriptions(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE tenant_id = $1 AND status = 'active'`,
		tenantID,
	).Scan(&count)
	return count, err
}

// SumActiveSubscriptionCents coalesces to zero so a tenant with no active
// subscriptions reports an MRR of 0, not NULL.
func (r *StatsRepository) SumActiveSubscriptionCents(ctx context.Context, tenantID string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM subscriptions WHERE tenant_id = $1 AND status = 'active'`,
		tenantID,
	).Scan(&sum)
	return sum, err
}
