package service

import "context"

type testTxRepos struct {
	accounts   AccountRepositoryInterface
	searchLogs SearchLogRepositoryInterface
}

func (t *testTxRepos) Accounts() AccountRepositoryInterface {
	return t.accounts
}

func (t *testTxRepos) SearchLogs() SearchLogRepositoryInterface {
	return t.searchLogs
}

type testTxRunner struct {
	repos      TxRepositories
	called     bool
	rolledBack bool
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	if err := fn(t.repos); err != nil {
		t.rolledBack = true
		return err
	}
	return nil
}
