package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

type CategoryRepository struct {
	db dbtx
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: pool}
}

func NewCategoryRepositoryWithTx(tx pgx.Tx) *CategoryRepository {
	return &CategoryRepository{db: tx}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO categories (id, tenant_id, name, description)
		 VALUES ($1, $2, $3, $4)`,
		c.ID, c.TenantID, c.Name, nullableString(c.Description),
	)
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Category, error) {
	var c domain.Category
	var description *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, description
		 FROM categories WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&c.ID, &c.TenantID, &c.Name, &description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	if description != nil {
		c.Description = *description
	}
	return &c, nil
}

func (r *CategoryRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, name, description
		 FROM categories WHERE tenant_id = $1 ORDER BY name ASC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var c domain.Category
		var description *string
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &description); err != nil {
			return nil, err
		}
		if description != nil {
			c.Description = *description
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// AssignAccount links an account to a category. Repeated assignment is a
// no-op via the join table's conflict clause.
func (r *CategoryRepository) AssignAccount(ctx context.Context, accountID, categoryID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO account_categories (account_id, category_id)
		 VALUES ($1, $2)
		 ON CONFLICT (account_id, category_id) DO NOTHING`,
		accountID, categoryID,
	)
	return err
}
