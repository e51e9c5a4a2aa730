package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mainstreet-labs/mainstreet/internal/api"
	"github.com/mainstreet-labs/mainstreet/internal/api/middleware"
	"github.com/mainstreet-labs/mainstreet/internal/domain"
	"github.com/mainstreet-labs/mainstreet/internal/service"
)

type SearchExecutor interface {
	Search(ctx context.Context, input service.SearchInput) (*service.SearchOutput, error)
	RecordClick(ctx context.Context, tenantID, searchLogID, accountID string) error
}

type TrendingProvider interface {
	Trending(ctx context.Context, tenantID string, topN int) ([]domain.TrendingQuery, error)
}

type SearchHandler struct {
	searchSvc    SearchExecutor
	analyticsSvc TrendingProvider
}

func NewSearchHandler(searchSvc SearchExecutor, analyticsSvc TrendingProvider) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc, analyticsSvc: analyticsSvc}
}

// BusinessResult is one ranked directory entry on the wire. Address is null
// when the account has no street, city or state.
type BusinessResult struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Address     *string        `json:"address"`
	Phone       string         `json:"phone,omitempty"`
	Website     string         `json:"website,omitempty"`
	Lat         *float64       `json:"lat"`
	Lng         *float64       `json:"lng"`
	Attributes  map[string]any `json:"attributes"`
	Position    int            `json:"position"`
	Score       float64        `json:"score"`
}

type SearchResponse struct {
	SearchID    string            `json:"search_id"`
	Query       string            `json:"query"`
	ResultCount int               `json:"result_count"`
	Results     []*BusinessResult `json:"results"`
}

func toBusinessResult(account *domain.Account, result *domain.SearchResult) *BusinessResult {
	var address *string
	if formatted := account.FormatAddress(); formatted != "" {
		address = &formatted
	}

	return &BusinessResult{
		ID:          account.ID,
		Name:        account.DisplayName(),
		Description: account.Description,
		Address:     address,
		Phone:       account.Phone,
		Website:     account.Website,
		Lat:         account.Lat,
		Lng:         account.Lng,
		Attributes:  account.Attributes,
		Position:    result.Position,
		Score:       result.Score,
	}
}

// Search handles GET /api/search. Every invocation, including one returning
// zero rows, commits a search log entry.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	q := r.URL.Query()

	input := service.SearchInput{
		TenantID:   tenantID,
		Query:      q.Get("q"),
		UserID:     q.Get("user_id"),
		CategoryID: q.Get("category_id"),
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			api.Error(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		input.Limit = &limit
	}

	location, err := parseLocation(q.Get("lat"), q.Get("lng"), q.Get("radius_km"))
	if err != nil {
		api.HandleError(w, err)
		return
	}
	input.Location = location

	output, err := h.searchSvc.Search(r.Context(), input)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	results := make([]*BusinessResult, len(output.Accounts))
	for i, account := range output.Accounts {
		results[i] = toBusinessResult(account, output.Results[i])
	}

	api.Success(w, http.StatusOK, SearchResponse{
		SearchID:    output.SearchID,
		Query:       output.Query,
		ResultCount: output.ResultCount,
		Results:     results,
	})
}

// parseLocation requires all three parameters together; a partial set is a
// validation error rather than a silently dropped filter.
func parseLocation(latStr, lngStr, radiusStr string) (*service.LocationFilter, error) {
	if latStr == "" && lngStr == "" && radiusStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" || radiusStr == "" {
		return nil, domain.ErrInvalidLocation
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, domain.ErrInvalidLocation
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, domain.ErrInvalidLocation
	}
	radius, err := strconv.ParseFloat(radiusStr, 64)
	if err != nil || radius <= 0 {
		return nil, domain.ErrInvalidLocation
	}

	return &service.LocationFilter{Lat: lat, Lng: lng, RadiusKM: radius}, nil
}

type TrendingResponse struct {
	Queries []TrendingEntry `json:"queries"`
}

type TrendingEntry struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Trending handles GET /api/search/trending.
func (h *SearchHandler) Trending(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	topN := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			topN = parsed
		}
	}

	trends, err := h.analyticsSvc.Trending(r.Context(), tenantID, topN)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	entries := make([]TrendingEntry, len(trends))
	for i, t := range trends {
		entries[i] = TrendingEntry{Query: t.Query, Count: t.Count}
	}

	api.Success(w, http.StatusOK, TrendingResponse{Queries: entries})
}

type ClickRequest struct {
	SearchID  string `json:"search_id"`
	AccountID string `json:"account_id"`
}

// Click handles POST /api/search/click.
func (h *SearchHandler) Click(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.searchSvc.RecordClick(r.Context(), tenantID, req.SearchID, req.AccountID); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]bool{"clicked": true})
}
