package middleware

import (
	"context"
	"net/http"

	"github.com/mainstreet-labs/mainstreet/internal/api"
	"github.com/mainstreet-labs/mainstreet/internal/domain"
)

type contextKey string

const TenantIDKey contextKey = "tenant_id"

// TenantValidator resolves a tenant ID to its record.
type TenantValidator interface {
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
}

// TenantResolver resolves the requesting tenant from the X-Tenant-ID header,
// falling back to defaultTenantID for single-tenant deployments. The tenant
// must exist and be active. This identifies the tenant; it is not an auth
// boundary.
func TenantResolver(validator TenantValidator, defaultTenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID := r.Header.Get("X-Tenant-ID")
			if tenantID == "" {
				tenantID = defaultTenantID
			}
			if tenantID == "" {
				api.Error(w, http.StatusBadRequest, "missing X-Tenant-ID header")
				return
			}

			tenant, err := validator.GetByID(r.Context(), tenantID)
			if err != nil {
				api.HandleError(w, err)
				return
			}
			if !tenant.IsActive {
				api.Error(w, http.StatusForbidden, "tenant is not active")
				return
			}

			ctx := context.WithValue(r.Context(), TenantIDKey, tenant.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetTenantID returns the resolved tenant ID from context.
func GetTenantID(ctx context.Context) string {
	tenantID, _ := ctx.Value(TenantIDKey).(string)
	return tenantID
}
