package listing

import (
	"context"
	"time"

	availabilityRepo "roomify/database/repository/availability"
	listingRepo "roomify/database/repository/listing"
	pricingRepo "roomify/database/repository/pricing"
	"roomify/models"
)

// Service is the host-facing catalog surface: listings, pricing tiers,
// date overrides, calendar blocks and explicit availability.
type Service interface {
	CreateListing(ctx context.Context, ownerID string, in models.CreateListingInput) (*models.Listing, error)
	GetListing(ctx context.Context, listingID string) (*models.Listing, error)
	UpdateListing(ctx context.Context, ownerID, listingID string, in models.UpdateListingInput) (*models.Listing, error)
	SetListingActive(ctx context.Context, ownerID, listingID string, active bool) error

	AddTier(ctx context.Context, ownerID, listingID string, in models.CreateTierInput) (*models.PricingTier, error)
	ListTiers(ctx context.Context, listingID string) ([]models.PricingTier, error)
	RemoveTier(ctx context.Context, ownerID, listingID, tierID string) error

	SetOverride(ctx context.Context, ownerID, listingID string, in models.CreateOverrideInput) (*models.PriceOverride, error)
	RemoveOverride(ctx context.Context, ownerID, listingID, tierID, date string) error

	AddBlock(ctx context.Context, ownerID, listingID string, in models.CreateBlockInput) (*models.BlockedInterval, error)
	RemoveBlock(ctx context.Context, ownerID, listingID, blockID string) error

	AddAvailability(ctx context.Context, ownerID, listingID string, in models.CreateAvailabilityInput) (*models.AvailabilityInterval, error)
	RemoveAvailability(ctx context.Context, ownerID, listingID, intervalID string) error
}

// CatalogService implements Service over the Mongo repositories.
type CatalogService struct {
	ListingRepo      listingRepo.ListingRepository
	PolicyRepo       listingRepo.PolicyRepository
	PricingRepo      pricingRepo.PricingRepository
	AvailabilityRepo availabilityRepo.AvailabilityRepository

	Now func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
