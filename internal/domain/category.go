package domain

// Category groups accounts within one tenant. The account/category mapping
// lives in its own join table.
type Category struct {
	ID          string
	TenantID    string
	Name        string
	Description string
}
