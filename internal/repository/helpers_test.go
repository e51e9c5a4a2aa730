//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/testutil"
)

func setupPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { _ = pc.Terminate(context.Background()) })

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	t.Cleanup(pool.Close)

	return pool
}

func seedTenant(ctx context.Context, t *testing.T, pool *pgxpool.Pool) *domain.Tenant {
	t.Helper()

	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Slug:      "tenant-" + uuid.NewString()[:8],
		Name:      "Test Tenant",
		IsActive:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := NewTenantRepository(pool).Create(ctx, tenant); err != nil {
		t.Fatalf("failed to seed tenant: %v", err)
	}
	return tenant
}

// seedAccount inserts an account with a creation time offset so insertion
// order is deterministic across rows seeded in the same test.
func seedAccount(ctx context.Context, t *testing.T, pool *pgxpool.Pool, tenantID string, offset time.Duration, mutate func(*domain.Account)) *domain.Account {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond).Add(offset)
	account := &domain.Account{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		EmailAddress: "owner@example.com",
		Attributes:   map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if mutate != nil {
		mutate(account)
	}
	if err := NewAccountRepository(pool).Create(ctx, account); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return account
}

func seedSearchLog(ctx context.Context, t *testing.T, pool *pgxpool.Pool, tenantID, query string, createdAt time.Time) *domain.SearchLog {
	t.Helper()

	log := &domain.SearchLog{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		SearchQuery: query,
		CreatedAt:   createdAt,
	}
	if err := NewSearchLogRepository(pool).CreateLog(ctx, log); err != nil {
		t.Fatalf("failed to seed search log: %v", err)
	}
	return log
}
