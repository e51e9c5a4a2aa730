package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

type SearchLogRepository struct {
	db dbtx
}

func NewSearchLogRepository(pool *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{db: pool}
}

func NewSearchLogRepositoryWithTx(tx pgx.Tx) *SearchLogRepository {
	return &SearchLogRepository{db: tx}
}

func (r *SearchLogRepository) CreateLog(ctx context.Context, log *domain.SearchLog) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO search_logs (id, tenant_id, search_query, result_count, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.TenantID, log.SearchQuery, log.ResultCount,
		nullableString(log.UserID), log.CreatedAt,
	)
	return err
}

func (r *SearchLogRepository) CreateResults(ctx context.Context, results []*domain.SearchResult) error {
	for _, res := range results {
		_, err := r.db.Exec(ctx,
			`INSERT INTO search_results (id, search_log_id, account_id, position, score, was_clicked)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			res.ID, res.SearchLogID, res.AccountID, res.Position, res.Score, res.WasClicked,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *SearchLogRepository) SetResultCount(ctx context.Context, logID string, count int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE search_logs SET result_count = $1 WHERE id = $2`,
		count, logID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSearchLogNotFound
	}
	return nil
}

func (r *SearchLogRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SearchLog, error) {
	var log domain.SearchLog
	var userID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, search_query, result_count, user_id, created_at
		 FROM search_logs WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	).Scan(&log.ID, &log.TenantID, &log.SearchQuery, &log.ResultCount, &userID, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSearchLogNotFound
		}
		return nil, err
	}
	if userID != nil {
		log.UserID = *userID
	}
	return &log, nil
}

// ResultsForLog returns the ranked rows of one log in position order.
func (r *SearchLogRepository) ResultsForLog(ctx context.Context, searchLogID string) ([]*domain.SearchResult, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, search_log_id, account_id, position, score, was_clicked
		 FROM search_results WHERE search_log_id = $1 ORDER BY position ASC`,
		searchLogID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.SearchResult
	for rows.Next() {
		var res domain.SearchResult
		if err := rows.Scan(&res.ID, &res.SearchLogID, &res.AccountID, &res.Position, &res.Score, &res.WasClicked); err != nil {
			return nil, err
		}
		results = append(results, &res)
	}
	return results, rows.Err()
}

// MarkClicked flags a result row, verifying through the log join that the row
// belongs to the requesting tenant. Re-clicking an already clicked row is a
// no-op success.
func (r *SearchLogRepository) MarkClicked(ctx context.Context, tenantID, searchLogID, accountID string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE search_results sr
		 SET was_clicked = TRUE
		 FROM search_logs sl
		 WHERE sl.id = sr.search_log_id
		   AND sl.tenant_id = $1
		   AND sr.search_log_id = $2
		   AND sr.account_id = $3`,
		tenantID, searchLogID, accountID,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrSearchResultNotFound
	}
	return nil
}

// Trending groups the tenant's log by literal query text. Count descending,
// query ascending on ties.
func (r *SearchLogRepository) Trending(ctx context.Context, tenantID string, limit int) ([]domain.TrendingQuery, error) {
	rows, err := r.db.Query(ctx,
		`SELECT search_query, COUNT(*) AS search_count
		 FROM search_logs
		 WHERE tenant_id = $1
		 GROUP BY search_query
		 ORDER BY search_count DESC, search_query ASC
		 LIMIT $2`,
		tenantID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trends := []domain.TrendingQuery{}
	for rows.Next() {
		var t domain.TrendingQuery
		if err := rows.Scan(&t.Query, &t.Count); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

func (r *SearchLogRepository) CountSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM search_logs WHERE tenant_id = $1 AND created_at >= $2`,
		tenantID, since,
	).Scan(&count)
	return count, err
}
