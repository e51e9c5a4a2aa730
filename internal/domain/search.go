package domain

import (
	"time"
)

const (
	// MaxQueryBytes caps the literal query string. The cap is ours; the
	// upstream schema left it unbounded.
	MaxQueryBytes = 2048

	// DefaultSearchLimit applies when the caller does not ask for a limit.
	DefaultSearchLimit = 20

	// MaxSearchLimit is the hard cap on returned rows.
	MaxSearchLimit = 100

	// BaseScore and ScoreDecay define the fixed linear ranking: the account
	// at 0-based index i scores BaseScore - ScoreDecay*i, floored at zero.
	BaseScore  = 100
	ScoreDecay = 5
)

// SearchLog records one search invocation. Immutable after the owning search
// transaction commits; result_count is written exactly once, inside that
// transaction.
type SearchLog struct {
	ID          string
	TenantID    string
	SearchQuery string
	ResultCount int
	UserID      string
	CreatedAt   time.Time
}

// SearchResult is one ranked account returned by one search. Positions for a
// given log are a dense 1..N sequence.
type SearchResult struct {
	ID          string
	SearchLogID string
	AccountID   string
	Position    int
	Score       float64
	WasClicked  bool
}

// ScoreForPosition returns the ranking score for the 0-based result index.
func ScoreForPosition(index int) float64 {
	score := BaseScore - ScoreDecay*index
	if score < 0 {
		return 0
	}
	return float64(score)
}

// TrendingQuery is one aggregated row of the trending report.
type TrendingQuery struct {
	Query string
	Count int
}

// DashboardStats summarizes a tenant's directory activity.
type DashboardStats struct {
	TotalAccounts       int
	ActiveSubscriptions int
	SearchesToday       int
	MRRCents            int64
}
