package domain

import "time"

// SubscriptionStatus represents the billing state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "pending"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription is a paid listing attached to an account. Only "active" rows
// count toward MRR.
type Subscription struct {
	ID          string
	TenantID    string
	AccountID   string
	ProductID   string
	Status      SubscriptionStatus
	AmountCents int64
	CreatedAt   time.Time
}
