package listingRepo

import (
	"context"

	"roomify/models"
)

// ListingRepository provides access to listings and their cancellation
// policies.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	// SetActive soft-enables or soft-disables a listing. Listings are never
	// hard-deleted while reservations reference them.
	SetActive(ctx context.Context, id string, active bool) error
}

// PolicyRepository provides cancellation policy lookup.
type PolicyRepository interface {
	GetPolicyByName(ctx context.Context, name string) (*models.CancellationPolicy, error)
	UpsertPolicy(ctx context.Context, policy *models.CancellationPolicy) error
}
