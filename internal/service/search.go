package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/telemetry"
)

// LocationFilter restricts results to accounts within radius_km of a point.
// Distance is planar Euclidean in degrees scaled by ~111 km/degree, not
// great-circle.
type LocationFilter struct {
	Lat      float64
	Lng      float64
	RadiusKM float64
}

// SearchFilters is the predicate set evaluated by the account store. TenantID
// is mandatory and applied before anything else.
type SearchFilters struct {
	TenantID   string
	Text       string
	CategoryID string
	Location   *LocationFilter
	Limit      int
}

// AccountRepositoryInterface defines the repository interface for account
// reads used by the search executor.
type AccountRepositoryInterface interface {
	Search(ctx context.Context, filters SearchFilters) ([]*domain.Account, error)
}

// SearchLogRepositoryInterface defines the repository interface for the
// search log and its result rows.
type SearchLogRepositoryInterface interface {
	CreateLog(ctx context.Context, log *domain.SearchLog) error
	CreateResults(ctx context.Context, results []*domain.SearchResult) error
	SetResultCount(ctx context.Context, logID string, count int) error
}

// ClickRepositoryInterface marks a previously returned result as clicked.
type ClickRepositoryInterface interface {
	MarkClicked(ctx context.Context, tenantID, searchLogID, accountID string) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// SearchInput represents one search invocation. Limit is nil when the caller
// did not ask for one; an explicit zero is a valid boundary.
type SearchInput struct {
	TenantID   string
	Query      string
	UserID     string
	CategoryID string
	Location   *LocationFilter
	Limit      *int
}

// SearchOutput carries the committed log identifier together with the ranked
// accounts.
type SearchOutput struct {
	SearchID    string
	Query       string
	ResultCount int
	Accounts    []*domain.Account
	Results     []*domain.SearchResult
}

// SearchService runs the search pipeline: stage the log row, evaluate the
// filters, record the ranked results, commit the lot atomically.
type SearchService struct {
	txRunner  TxRunner
	clickRepo ClickRepositoryInterface
	uuidGen   UUIDGenerator
}

// NewSearchService creates a new SearchService instance
func NewSearchService(txRunner TxRunner, clickRepo ClickRepositoryInterface) *SearchService {
	return &SearchService{
		txRunner:  txRunner,
		clickRepo: clickRepo,
		uuidGen:   &DefaultUUIDGenerator{},
	}
}

// NewSearchServiceWithUUIDGen creates a SearchService with a custom UUID
// generator (for testing)
func NewSearchServiceWithUUIDGen(txRunner TxRunner, clickRepo ClickRepositoryInterface, uuidGen UUIDGenerator) *SearchService {
	return &SearchService{
		txRunner:  txRunner,
		clickRepo: clickRepo,
		uuidGen:   uuidGen,
	}
}

// Search validates the input, then commits the log row, the account matches
// and the result rows as one transaction. A zero limit is a valid boundary:
// the log is still created with result_count = 0.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchOutput, error) {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.Search", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "search",
	})
	defer span.End()

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if len(query) > domain.MaxQueryBytes {
		return nil, domain.ErrQueryTooLong
	}
	if input.TenantID == "" {
		return nil, domain.ErrInvalidTenantID
	}

	limit := domain.DefaultSearchLimit
	if input.Limit != nil {
		limit = *input.Limit
		if limit < 0 || limit > domain.MaxSearchLimit {
			return nil, domain.ErrInvalidLimit
		}
	}

	log := &domain.SearchLog{
		ID:          s.uuidGen.NewString(),
		TenantID:    input.TenantID,
		SearchQuery: query,
		ResultCount: 0,
		UserID:      input.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	filters := SearchFilters{
		TenantID:   input.TenantID,
		Text:       query,
		CategoryID: input.CategoryID,
		Location:   input.Location,
		Limit:      limit,
	}

	var accounts []*domain.Account
	var results []*domain.SearchResult

	err := s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		// The log insert is staged first; its ID is the FK target for the
		// result rows flushed in the same transaction.
		if err := repos.SearchLogs().CreateLog(ctx, log); err != nil {
			return err
		}

		var err error
		accounts, err = repos.Accounts().Search(ctx, filters)
		if err != nil {
			return err
		}

		results = make([]*domain.SearchResult, len(accounts))
		for i, account := range accounts {
			results[i] = &domain.SearchResult{
				ID:          s.uuidGen.NewString(),
				SearchLogID: log.ID,
				AccountID:   account.ID,
				Position:    i + 1,
				Score:       domain.ScoreForPosition(i),
			}
		}

		if err := repos.SearchLogs().CreateResults(ctx, results); err != nil {
			return err
		}

		log.ResultCount = len(results)
		return repos.SearchLogs().SetResultCount(ctx, log.ID, log.ResultCount)
	})
	if err != nil {
		span.SetError(err)
		return nil, domain.NewPersistenceError("search transaction", err)
	}

	return &SearchOutput{
		SearchID:    log.ID,
		Query:       query,
		ResultCount: log.ResultCount,
		Accounts:    accounts,
		Results:     results,
	}, nil
}

// RecordClick flags a (search, account) pair as clicked, scoped to the
// requesting tenant. Idempotent.
func (s *SearchService) RecordClick(ctx context.Context, tenantID, searchLogID, accountID string) error {
	ctx, span := telemetry.StartSpan(ctx, "SearchService.RecordClick", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "click",
	})
	defer span.End()

	if tenantID == "" {
		return domain.ErrInvalidTenantID
	}
	if searchLogID == "" || accountID == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "search_id and account_id are required")
	}

	return s.clickRepo.MarkClicked(ctx, tenantID, searchLogID, accountID)
}
