package pricingRepo

import (
	"context"

	"roomify/models"
)

// PricingRepository provides access to a listing's pricing catalog: tiers
// plus date-scoped price overrides.
type PricingRepository interface {
	CreateTier(ctx context.Context, tier *models.PricingTier) error
	GetTier(ctx context.Context, tierID string) (*models.PricingTier, error)
	GetTiersByListing(ctx context.Context, listingID string) ([]models.PricingTier, error)
	DeleteTier(ctx context.Context, listingID, tierID string) error
	// ClearDefault unsets the default flag on all of a listing's tiers so a
	// new default can be assigned. At most one default tier per listing.
	ClearDefault(ctx context.Context, listingID string) error

	// SetOverride upserts the override for (tier, date); at most one exists.
	SetOverride(ctx context.Context, override *models.PriceOverride) error
	DeleteOverride(ctx context.Context, tierID, date string) error
	// GetOverrides returns the override prices for a tier on the given
	// dates, keyed by date. Dates without an override are absent.
	GetOverrides(ctx context.Context, tierID string, dates []string) (map[string]float64, error)
}
