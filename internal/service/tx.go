package service

import "context"

// TxRepositories provides transaction-bound repositories. A search commits
// its log row, its result rows and the final result_count through one of
// these, so either everything lands or nothing does.
type TxRepositories interface {
	Accounts() AccountRepositoryInterface
	SearchLogs() SearchLogRepositoryInterface
}

// TxRunner executes a function within a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
