package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

// MockAccountSearchRepository is a mock implementation of AccountRepositoryInterface
type MockAccountSearchRepository struct {
	mock.Mock
}

func (m *MockAccountSearchRepository) Search(ctx context.Context, filters SearchFilters) ([]*domain.Account, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Account), args.Error(1)
}

// MockSearchLogRepository is a mock implementation of SearchLogRepositoryInterface
type MockSearchLogRepository struct {
	mock.Mock
}

func (m *MockSearchLogRepository) CreateLog(ctx context.Context, log *domain.SearchLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSearchLogRepository) CreateResults(ctx context.Context, results []*domain.SearchResult) error {
	args := m.Called(ctx, results)
	return args.Error(0)
}

func (m *MockSearchLogRepository) SetResultCount(ctx context.Context, logID string, count int) error {
	args := m.Called(ctx, logID, count)
	return args.Error(0)
}

// MockClickRepository is a mock implementation of ClickRepositoryInterface
type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) MarkClicked(ctx context.Context, tenantID, searchLogID, accountID string) error {
	args := m.Called(ctx, tenantID, searchLogID, accountID)
	return args.Error(0)
}

// MockUUIDGenerator returns a fixed sequence of IDs
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	m.callCount++
	return fmt.Sprintf("generated-uuid-%d", m.callCount)
}

func newSearchServiceForTest(accountRepo AccountRepositoryInterface, logRepo SearchLogRepositoryInterface, uuids ...string) (*SearchService, *testTxRunner) {
	runner := &testTxRunner{repos: &testTxRepos{accounts: accountRepo, searchLogs: logRepo}}
	svc := NewSearchServiceWithUUIDGen(runner, new(MockClickRepository), NewMockUUIDGenerator(uuids...))
	return svc, runner
}

func testAccounts(n int) []*domain.Account {
	accounts := make([]*domain.Account, n)
	for i := 0; i < n; i++ {
		accounts[i] = &domain.Account{
			ID:           fmt.Sprintf("account-%d", i+1),
			TenantID:     "tenant-1",
			EmailAddress: fmt.Sprintf("biz%d@example.com", i+1),
			CompanyName:  fmt.Sprintf("Business %d", i+1),
		}
	}
	return accounts
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("commits log, results and count for three matches", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, runner := newSearchServiceForTest(accountRepo, logRepo, "log-1", "res-1", "res-2", "res-3")

		logRepo.On("CreateLog", mock.Anything, mock.MatchedBy(func(log *domain.SearchLog) bool {
			return log.ID == "log-1" &&
				log.TenantID == "tenant-1" &&
				log.SearchQuery == "pizza" &&
				log.ResultCount == 0
		})).Return(nil)

		accountRepo.On("Search", mock.Anything, mock.MatchedBy(func(f SearchFilters) bool {
			return f.TenantID == "tenant-1" && f.Text == "pizza" && f.Limit == domain.DefaultSearchLimit
		})).Return(testAccounts(3), nil)

		logRepo.On("CreateResults", mock.Anything, mock.MatchedBy(func(results []*domain.SearchResult) bool {
			if len(results) != 3 {
				return false
			}
			for i, r := range results {
				if r.SearchLogID != "log-1" || r.Position != i+1 {
					return false
				}
			}
			return results[0].Score == 100 && results[1].Score == 95 && results[2].Score == 90
		})).Return(nil)

		logRepo.On("SetResultCount", mock.Anything, "log-1", 3).Return(nil)

		output, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza"})

		require.NoError(t, err)
		assert.True(t, runner.called)
		assert.Equal(t, "log-1", output.SearchID)
		assert.Equal(t, "pizza", output.Query)
		assert.Equal(t, 3, output.ResultCount)
		assert.Len(t, output.Accounts, 3)
		assert.Len(t, output.Results, 3)

		logRepo.AssertExpectations(t)
		accountRepo.AssertExpectations(t)
	})

	t.Run("score floors at zero beyond position 21", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, _ := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		limit := 30
		logRepo.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
		accountRepo.On("Search", mock.Anything, mock.Anything).Return(testAccounts(25), nil)

		var captured []*domain.SearchResult
		logRepo.On("CreateResults", mock.Anything, mock.MatchedBy(func(results []*domain.SearchResult) bool {
			captured = results
			return true
		})).Return(nil)
		logRepo.On("SetResultCount", mock.Anything, "log-1", 25).Return(nil)

		output, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza", Limit: &limit})

		require.NoError(t, err)
		assert.Equal(t, 25, output.ResultCount)
		require.Len(t, captured, 25)
		// score hits zero at 0-based index 20 (100 - 5*20)
		assert.Equal(t, float64(5), captured[19].Score)
		assert.Equal(t, float64(0), captured[20].Score)
		assert.Equal(t, float64(0), captured[24].Score)
		assert.Equal(t, 25, captured[24].Position)
	})

	t.Run("explicit zero limit still creates the log", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, runner := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		zero := 0
		logRepo.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
		accountRepo.On("Search", mock.Anything, mock.MatchedBy(func(f SearchFilters) bool {
			return f.Limit == 0
		})).Return([]*domain.Account{}, nil)
		logRepo.On("CreateResults", mock.Anything, mock.MatchedBy(func(results []*domain.SearchResult) bool {
			return len(results) == 0
		})).Return(nil)
		logRepo.On("SetResultCount", mock.Anything, "log-1", 0).Return(nil)

		output, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza", Limit: &zero})

		require.NoError(t, err)
		assert.True(t, runner.called)
		assert.Equal(t, 0, output.ResultCount)
		logRepo.AssertExpectations(t)
	})

	t.Run("trims surrounding whitespace before logging", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, _ := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		logRepo.On("CreateLog", mock.Anything, mock.MatchedBy(func(log *domain.SearchLog) bool {
			return log.SearchQuery == "pizza"
		})).Return(nil)
		accountRepo.On("Search", mock.Anything, mock.MatchedBy(func(f SearchFilters) bool {
			return f.Text == "pizza"
		})).Return([]*domain.Account{}, nil)
		logRepo.On("CreateResults", mock.Anything, mock.Anything).Return(nil)
		logRepo.On("SetResultCount", mock.Anything, "log-1", 0).Return(nil)

		output, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "   pizza  "})

		require.NoError(t, err)
		assert.Equal(t, "pizza", output.Query)
	})

	t.Run("rejects empty and whitespace-only queries", func(t *testing.T) {
		svc, runner := newSearchServiceForTest(new(MockAccountSearchRepository), new(MockSearchLogRepository))

		_, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: ""})
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)

		_, err = svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "   \t  "})
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)

		assert.False(t, runner.called)
	})

	t.Run("rejects oversized queries", func(t *testing.T) {
		svc, runner := newSearchServiceForTest(new(MockAccountSearchRepository), new(MockSearchLogRepository))

		_, err := svc.Search(ctx, SearchInput{
			TenantID: "tenant-1",
			Query:    strings.Repeat("a", domain.MaxQueryBytes+1),
		})

		assert.ErrorIs(t, err, domain.ErrQueryTooLong)
		assert.False(t, runner.called)
	})

	t.Run("accepts a query of exactly the maximum length", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, _ := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		logRepo.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
		accountRepo.On("Search", mock.Anything, mock.Anything).Return([]*domain.Account{}, nil)
		logRepo.On("CreateResults", mock.Anything, mock.Anything).Return(nil)
		logRepo.On("SetResultCount", mock.Anything, "log-1", 0).Return(nil)

		_, err := svc.Search(ctx, SearchInput{
			TenantID: "tenant-1",
			Query:    strings.Repeat("a", domain.MaxQueryBytes),
		})

		require.NoError(t, err)
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		svc, runner := newSearchServiceForTest(new(MockAccountSearchRepository), new(MockSearchLogRepository))

		_, err := svc.Search(ctx, SearchInput{Query: "pizza"})

		assert.ErrorIs(t, err, domain.ErrInvalidTenantID)
		assert.False(t, runner.called)
	})

	t.Run("rejects out-of-bounds limits", func(t *testing.T) {
		svc, runner := newSearchServiceForTest(new(MockAccountSearchRepository), new(MockSearchLogRepository))

		negative := -1
		_, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza", Limit: &negative})
		assert.ErrorIs(t, err, domain.ErrInvalidLimit)

		tooLarge := domain.MaxSearchLimit + 1
		_, err = svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza", Limit: &tooLarge})
		assert.ErrorIs(t, err, domain.ErrInvalidLimit)

		assert.False(t, runner.called)
	})

	t.Run("rolls back when result insert fails", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, runner := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		logRepo.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
		accountRepo.On("Search", mock.Anything, mock.Anything).Return(testAccounts(2), nil)
		logRepo.On("CreateResults", mock.Anything, mock.Anything).Return(errors.New("unique violation"))

		output, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza"})

		require.Error(t, err)
		assert.Nil(t, output)
		assert.True(t, runner.rolledBack)

		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.ErrCodePersistence, domainErr.Code)
		logRepo.AssertNotCalled(t, "SetResultCount", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rolls back when log insert fails", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, runner := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		logRepo.On("CreateLog", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := svc.Search(ctx, SearchInput{TenantID: "tenant-1", Query: "pizza"})

		require.Error(t, err)
		assert.True(t, runner.rolledBack)
		accountRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	})

	t.Run("passes location and category filters through", func(t *testing.T) {
		accountRepo := new(MockAccountSearchRepository)
		logRepo := new(MockSearchLogRepository)
		svc, _ := newSearchServiceForTest(accountRepo, logRepo, "log-1")

		logRepo.On("CreateLog", mock.Anything, mock.Anything).Return(nil)
		accountRepo.On("Search", mock.Anything, mock.MatchedBy(func(f SearchFilters) bool {
			return f.CategoryID == "cat-1" &&
				f.Location != nil &&
				f.Location.Lat == 40.0 && f.Location.Lng == -74.0 && f.Location.RadiusKM == 10
		})).Return([]*domain.Account{}, nil)
		logRepo.On("CreateResults", mock.Anything, mock.Anything).Return(nil)
		logRepo.On("SetResultCount", mock.Anything, "log-1", 0).Return(nil)

		_, err := svc.Search(ctx, SearchInput{
			TenantID:   "tenant-1",
			Query:      "pizza",
			CategoryID: "cat-1",
			Location:   &LocationFilter{Lat: 40.0, Lng: -74.0, RadiusKM: 10},
		})

		require.NoError(t, err)
		accountRepo.AssertExpectations(t)
	})
}

func TestSearchService_RecordClick(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the result clicked", func(t *testing.T) {
		clickRepo := new(MockClickRepository)
		svc := NewSearchService(&testTxRunner{}, clickRepo)

		clickRepo.On("MarkClicked", mock.Anything, "tenant-1", "log-1", "account-1").Return(nil)

		err := svc.RecordClick(ctx, "tenant-1", "log-1", "account-1")

		require.NoError(t, err)
		clickRepo.AssertExpectations(t)
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		clickRepo := new(MockClickRepository)
		svc := NewSearchService(&testTxRunner{}, clickRepo)

		err := svc.RecordClick(ctx, "", "log-1", "account-1")
		assert.ErrorIs(t, err, domain.ErrInvalidTenantID)

		err = svc.RecordClick(ctx, "tenant-1", "", "account-1")
		require.Error(t, err)

		err = svc.RecordClick(ctx, "tenant-1", "log-1", "")
		require.Error(t, err)

		clickRepo.AssertNotCalled(t, "MarkClicked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("propagates not found from the repository", func(t *testing.T) {
		clickRepo := new(MockClickRepository)
		svc := NewSearchService(&testTxRunner{}, clickRepo)

		clickRepo.On("MarkClicked", mock.Anything, "tenant-1", "log-1", "account-9").
			Return(domain.ErrSearchResultNotFound)

		err := svc.RecordClick(ctx, "tenant-1", "log-1", "account-9")

		assert.ErrorIs(t, err, domain.ErrSearchResultNotFound)
	})
}
