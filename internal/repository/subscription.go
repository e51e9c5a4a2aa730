package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

type SubscriptionRepository struct {
	db dbtx
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: pool}
}

func NewSubscriptionRepositoryWithTx(tx pgx.Tx) *SubscriptionRepository {
	return &SubscriptionRepository{db: tx}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO subscriptions (id, tenant_id, account_id, product_id, status, amount_cents, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sub.ID, sub.TenantID, sub.AccountID,
		nullableString(sub.ProductID), string(sub.Status), sub.AmountCents, sub.CreatedAt,
	)
	return err
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, tenantID, id string, status domain.SubscriptionStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET status = $1 WHERE tenant_id = $2 AND id = $3`,
		string(status), tenantID, id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.NewDomainError(domain.ErrCodeNotFound, "subscription not found")
	}
	return nil
}

func (r *SubscriptionRepository) ListByAccount(ctx context.Context, tenantID, accountID string) ([]*domain.Subscription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, account_id, product_id, status, amount_cents, created_at
		 FROM subscriptions
		 WHERE tenant_id = $1 AND account_id = $2
		 ORDER BY created_at ASC, id ASC`,
		tenantID, accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var productID *string
		var status string
		if err := rows.Scan(&sub.ID, &sub.TenantID, &sub.AccountID, &productID, &status, &sub.AmountCents, &sub.CreatedAt); err != nil {
			return nil, err
		}
		if productID != nil {
			sub.ProductID = *productID
		}
		sub.Status = domain.SubscriptionStatus(status)
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}
