package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mainstreet-labs/mainstreet/internal/service"
)

// dbtx is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so a
// repository can run against the pool or inside a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner provides transactional repositories using a pgx pool. A search's
// log row, result rows and result_count commit through one WithTx call;
// any error rolls all of it back.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) WithTx(ctx context.Context, fn func(repos service.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	repos := &txRepos{tx: tx}
	if err := fn(repos); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	return tx.Commit(ctx)
}

type txRepos struct {
	tx pgx.Tx
}

func (r *txRepos) Accounts() service.AccountRepositoryInterface {
	return NewAccountRepositoryWithTx(r.tx)
}

func (r *txRepos) SearchLogs() service.SearchLogRepositoryInterface {
	return NewSearchLogRepositoryWithTx(r.tx)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
