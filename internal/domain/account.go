package domain

import (
	"fmt"
	"strings"
	"time"
)

// Account is a business directory entry, the searchable unit. It always
// belongs to exactly one tenant and is read-only from the search subsystem's
// perspective.
type Account struct {
	ID           string
	TenantID     string
	EmailAddress string
	CompanyName  string
	Description  string
	Phone        string
	Website      string

	// Optional geographic coordinate
	Lat *float64
	Lng *float64

	// Free-form attribute mapping, schema-free
	Attributes map[string]any

	// Postal address
	Street string
	City   string
	State  string
	Zip    string

	// Object key of the uploaded logo, empty when none
	LogoKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasLocation reports whether the account carries a usable coordinate.
func (a *Account) HasLocation() bool {
	return a.Lat != nil && a.Lng != nil
}

// DisplayName returns the company name, falling back to a placeholder for
// accounts created before the name became required.
func (a *Account) DisplayName() string {
	if a.CompanyName == "" {
		return "Unknown"
	}
	return a.CompanyName
}

// FormatAddress joins the non-empty street/city/state components with ", ".
// Accounts with no address fields yield "" (rendered as null on the wire).
func (a *Account) FormatAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ValidateAccount validates an Account instance
func ValidateAccount(a *Account) error {
	if a == nil {
		return fmt.Errorf("account cannot be nil")
	}

	if a.ID == "" {
		return fmt.Errorf("account ID is required")
	}

	if a.TenantID == "" {
		return fmt.Errorf("account TenantID is required")
	}

	if a.EmailAddress == "" {
		return ErrMissingEmail
	}

	if (a.Lat == nil) != (a.Lng == nil) {
		return fmt.Errorf("account coordinate requires both lat and lng")
	}

	return nil
}
