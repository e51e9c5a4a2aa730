package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

const tenantColumns = `id, slug, name, domain, tenant_type, subscription_tier, is_active, created_at`

type TenantRepository struct {
	db dbtx
}

func NewTenantRepository(pool *pgxpool.Pool) *TenantRepository {
	return &TenantRepository{db: pool}
}

func (r *TenantRepository) Create(ctx context.Context, t *domain.Tenant) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tenants (id, slug, name, domain, tenant_type, subscription_tier, is_active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Slug, t.Name,
		nullableString(t.Domain), nullableString(t.TenantType), nullableString(t.SubscriptionTier),
		t.IsActive, t.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrTenantAlreadyExists
		}
		return err
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug)
	return scanTenant(row)
}

func (r *TenantRepository) List(ctx context.Context) ([]*domain.Tenant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var t domain.Tenant
	var dom, tenantType, tier *string

	err := row.Scan(&t.ID, &t.Slug, &t.Name, &dom, &tenantType, &tier, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, err
	}

	if dom != nil {
		t.Domain = *dom
	}
	if tenantType != nil {
		t.TenantType = *tenantType
	}
	if tier != nil {
		t.SubscriptionTier = *tier
	}
	return &t, nil
}
