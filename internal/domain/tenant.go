package domain

import (
	"fmt"
	"time"
)

// Tenant is an isolated customer namespace. Every row in the directory is
// partitioned by tenant; the search subsystem never crosses that boundary.
type Tenant struct {
	ID               string
	Slug             string
	Name             string
	Domain           string
	TenantType       string
	SubscriptionTier string
	IsActive         bool
	CreatedAt        time.Time
}

// ValidateTenant validates a Tenant instance
func ValidateTenant(t *Tenant) error {
	if t == nil {
		return fmt.Errorf("tenant cannot be nil")
	}

	if t.ID == "" {
		return fmt.Errorf("tenant ID is required")
	}

	if t.Slug == "" {
		return fmt.Errorf("tenant Slug is required")
	}

	if t.Name == "" {
		return fmt.Errorf("tenant Name is required")
	}

	return nil
}
