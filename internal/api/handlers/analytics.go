package handlers

import (
	"context"
	"net/http"

	"github.com/mainstreet-labs/mainstreet/internal/api"
	"github.com/mainstreet-labs/mainstreet/internal/api/middleware"
	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

type DashboardProvider interface {
	DashboardStats(ctx context.Context, tenantID string) (*domain.DashboardStats, error)
}

type AnalyticsHandler struct {
	svc DashboardProvider
}

func NewAnalyticsHandler(svc DashboardProvider) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

type DashboardResponse struct {
	TotalAccounts       int     `json:"total_accounts"`
	ActiveSubscriptions int     `json:"active_subscriptions"`
	SearchesToday       int     `json:"searches_today"`
	MRRCents            int64   `json:"mrr_cents"`
	MRRDollars          float64 `json:"mrr_dollars"`
}

// Dashboard handles GET /api/analytics/dashboard.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	stats, err := h.svc.DashboardStats(r.Context(), tenantID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DashboardResponse{
		TotalAccounts:       stats.TotalAccounts,
		ActiveSubscriptions: stats.ActiveSubscriptions,
		SearchesToday:       stats.SearchesToday,
		MRRCents:            stats.MRRCents,
		MRRDollars:          float64(stats.MRRCents) / 100,
	})
}
