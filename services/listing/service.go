package listing

import (
	"context"
	"errors"
	"time"

	"roomify/config"
	listingRepo "roomify/database/repository/listing"
	pricingRepo "roomify/database/repository/pricing"
	"roomify/models"
	"roomify/services/reservation"
	"roomify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateListing registers a new listing owned by ownerID.
func (s *CatalogService) CreateListing(ctx context.Context, ownerID string, in models.CreateListingInput) (*models.Listing, error) {
	logger := utils.GetLogger()

	if !in.UnitType.Valid() {
		return nil, reservation.NewInvalidWindow("unsupported unit type")
	}
	if in.Policy != models.PolicyOpenByDefault && in.Policy != models.PolicyClosedByDefault {
		return nil, reservation.NewInvalidWindow("unsupported availability policy")
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	cancelPolicy := in.CancelPolicy
	if cancelPolicy == "" {
		cancelPolicy = config.AppConfig.DefaultCancelPolicy
	}
	if _, err := s.PolicyRepo.GetPolicyByName(ctx, cancelPolicy); err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			return nil, reservation.NewNotFound("unknown cancellation policy")
		}
		return nil, err
	}

	now := s.now()
	l := &models.Listing{
		ID:                 uuid.New().String(),
		OwnerID:            ownerID,
		Name:               in.Name,
		UnitType:           in.UnitType,
		Policy:             in.Policy,
		InstantConfirm:     in.InstantConfirm,
		Active:             true,
		Currency:           currency,
		CommissionRate:     in.CommissionRate,
		ServiceFeeRate:     in.ServiceFeeRate,
		DepositRate:        in.DepositRate,
		CancellationPolicy: cancelPolicy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.ListingRepo.Create(ctx, l); err != nil {
		logger.Error("Failed to create listing", zap.Error(err))
		return nil, err
	}
	logger.Info("Listing created",
		zap.String("listingID", l.ID),
		zap.String("ownerID", ownerID),
		zap.String("unitType", string(l.UnitType)))
	return l, nil
}

func (s *CatalogService) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	l, err := s.ListingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			return nil, reservation.NewNotFound("listing not found")
		}
		return nil, err
	}
	return l, nil
}

// UpdateListing applies the non-nil fields of in to the listing. Unit type
// is immutable once a listing exists; its tiers and reservations depend on it.
func (s *CatalogService) UpdateListing(ctx context.Context, ownerID, listingID string, in models.UpdateListingInput) (*models.Listing, error) {
	l, err := s.requireOwned(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		l.Name = *in.Name
	}
	if in.Policy != nil {
		if *in.Policy != models.PolicyOpenByDefault && *in.Policy != models.PolicyClosedByDefault {
			return nil, reservation.NewInvalidWindow("unsupported availability policy")
		}
		l.Policy = *in.Policy
	}
	if in.InstantConfirm != nil {
		l.InstantConfirm = *in.InstantConfirm
	}
	if in.CommissionRate != nil {
		l.CommissionRate = in.CommissionRate
	}
	if in.ServiceFeeRate != nil {
		l.ServiceFeeRate = in.ServiceFeeRate
	}
	if in.DepositRate != nil {
		l.DepositRate = in.DepositRate
	}
	if in.CancelPolicy != nil {
		if _, err := s.PolicyRepo.GetPolicyByName(ctx, *in.CancelPolicy); err != nil {
			if errors.Is(err, listingRepo.ErrNotFound) {
				return nil, reservation.NewNotFound("unknown cancellation policy")
			}
			return nil, err
		}
		l.CancellationPolicy = *in.CancelPolicy
	}
	l.UpdatedAt = s.now()

	if err := s.ListingRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// SetListingActive soft-enables or soft-disables a listing. Disabling does
// not touch existing reservations; it only stops new ones.
func (s *CatalogService) SetListingActive(ctx context.Context, ownerID, listingID string, active bool) error {
	if _, err := s.requireOwned(ctx, ownerID, listingID); err != nil {
		return err
	}
	if err := s.ListingRepo.SetActive(ctx, listingID, active); err != nil {
		return err
	}
	utils.GetLogger().Info("Listing active state changed",
		zap.String("listingID", listingID), zap.Bool("active", active))
	return nil
}

// AddTier adds a pricing tier. When the new tier is flagged default, the
// previous default is cleared first so at most one default exists.
func (s *CatalogService) AddTier(ctx context.Context, ownerID, listingID string, in models.CreateTierInput) (*models.PricingTier, error) {
	l, err := s.requireOwned(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}
	if !in.UnitType.Valid() {
		return nil, reservation.NewInvalidWindow("unsupported unit type")
	}
	if in.UnitType != l.UnitType && in.UnitType != l.UnitType.Sibling() {
		return nil, reservation.NewInvalidWindow("tier unit type does not match listing")
	}
	if in.Duration <= 0 {
		return nil, reservation.NewInvalidWindow("tier duration must be positive")
	}
	if in.Price <= 0 {
		return nil, reservation.NewInvalidWindow("tier price must be positive")
	}
	if in.MinUnits < 0 {
		return nil, reservation.NewInvalidWindow("tier min units must not be negative")
	}
	if in.MaxUnits != nil && *in.MaxUnits < in.MinUnits {
		return nil, reservation.NewInvalidWindow("tier max units below min units")
	}

	if in.Default {
		if err := s.PricingRepo.ClearDefault(ctx, listingID); err != nil {
			return nil, err
		}
	}
	tier := &models.PricingTier{
		ID:        uuid.New().String(),
		ListingID: listingID,
		UnitType:  in.UnitType,
		Duration:  in.Duration,
		Price:     in.Price,
		MinUnits:  in.MinUnits,
		MaxUnits:  in.MaxUnits,
		Default:   in.Default,
		CreatedAt: s.now(),
	}
	if err := s.PricingRepo.CreateTier(ctx, tier); err != nil {
		return nil, err
	}
	return tier, nil
}

func (s *CatalogService) ListTiers(ctx context.Context, listingID string) ([]models.PricingTier, error) {
	if _, err := s.GetListing(ctx, listingID); err != nil {
		return nil, err
	}
	return s.PricingRepo.GetTiersByListing(ctx, listingID)
}

func (s *CatalogService) RemoveTier(ctx context.Context, ownerID, listingID, tierID string) error {
	if _, err := s.requireOwned(ctx, ownerID, listingID); err != nil {
		return err
	}
	if err := s.PricingRepo.DeleteTier(ctx, listingID, tierID); err != nil {
		if errors.Is(err, pricingRepo.ErrNotFound) {
			return reservation.NewNotFound("pricing tier not found")
		}
		return err
	}
	return nil
}

// SetOverride upserts the price override for (tier, date).
func (s *CatalogService) SetOverride(ctx context.Context, ownerID, listingID string, in models.CreateOverrideInput) (*models.PriceOverride, error) {
	if _, err := s.requireOwned(ctx, ownerID, listingID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(models.PrimaryDateLayout, in.Date); err != nil {
		return nil, reservation.NewInvalidWindow("override date must be YYYY-MM-DD")
	}
	if in.Price <= 0 {
		return nil, reservation.NewInvalidWindow("override price must be positive")
	}
	tier, err := s.PricingRepo.GetTier(ctx, in.TierID)
	if err != nil {
		if errors.Is(err, pricingRepo.ErrNotFound) {
			return nil, reservation.NewNotFound("pricing tier not found")
		}
		return nil, err
	}
	if tier.ListingID != listingID {
		return nil, reservation.NewForbidden("tier belongs to another listing")
	}

	ov := &models.PriceOverride{
		ID:        uuid.New().String(),
		ListingID: listingID,
		TierID:    in.TierID,
		Date:      in.Date,
		Price:     in.Price,
	}
	if err := s.PricingRepo.SetOverride(ctx, ov); err != nil {
		return nil, err
	}
	return ov, nil
}

func (s *CatalogService) RemoveOverride(ctx context.Context, ownerID, listingID, tierID, date string) error {
	if _, err := s.requireOwned(ctx, ownerID, listingID); err != nil {
		return err
	}
	tier, err := s.PricingRepo.GetTier(ctx, tierID)
	if err != nil {
		if errors.Is(err, pricingRepo.ErrNotFound) {
			return reservation.NewNotFound("pricing tier not found")
		}
		return err
	}
	if tier.ListingID != listingID {
		return reservation.NewForbidden("tier belongs to another listing")
	}
	return s.PricingRepo.DeleteOverride(ctx, tierID, date)
}

// AddBlock marks a window unavailable. For overnight listings the block owns
// its check-in calendar date.
func (s *CatalogService) AddBlock(ctx context.Context, ownerID, listingID string, in models.CreateBlockInput) (*models.BlockedInterval, error) {
	l, err := s.requireOwned(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}
	if !in.End.After(in.Start) {
		return nil, reservation.NewInvalidWindow("block end must be after start")
	}

	block := &models.BlockedInterval{
		ID:        uuid.New().String(),
		ListingID: listingID,
		Start:     in.Start.UTC(),
		End:       in.End.UTC(),
		Overnight: in.Overnight || l.UnitType.Overnight(),
		Reason:    in.Reason,
		CreatedAt: s.now(),
	}
	if block.Overnight {
		block.PrimaryDate = in.PrimaryDate
		if block.PrimaryDate == "" {
			block.PrimaryDate = models.PrimaryDate(block.Start)
		}
	}
	if err := s.AvailabilityRepo.CreateBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *CatalogService) RemoveBlock(ctx context.Context, ownerID, listingID, blockID string) error {
	if _, err := s.requireOwned(ctx, ownerID, listingID); err != nil {
		return err
	}
	return s.AvailabilityRepo.DeleteBlock(ctx, listingID, blockID)
}

// AddAvailability declares explicit bookable time. Only consulted when the
// listing is closed-by-default, but hosts may declare it either way.
func (s *CatalogService) AddAvailability(ctx context.Context, ownerID, listingID string, in models.CreateAvailabilityInput) (*models.AvailabilityInterval, error) {
	l, err := s.requireOwned(ctx, ownerID, listingID)
	if err != nil {
		return nil, err
	}
	if !in.End.After(in.Start) {
		return nil, reservation.NewInvalidWindow("availability end must be after start")
	}
	unitType := in.UnitType
	if unitType == "" {
		unitType = l.UnitType
	}
	if !unitType.Valid() {
		return nil, reservation.NewInvalidWindow("unsupported unit type")
	}

	iv := &models.AvailabilityInterval{
		ID:        uuid.New().String(),
		ListingID: listingID,
		Start:     in.Start.UTC(),
		End:       in.End.UTC(),
		Available: true,
		UnitType:  unitType,
		Overnight: in.Overnight || unitType.Overnight(),
		CreatedAt: s.now(),
	}
	if iv.Overnight {
		iv.PrimaryDate = in.PrimaryDate
		if iv.PrimaryDate == "" {
			iv.PrimaryDate = models.PrimaryDate(iv.Start)
		}
	}
	if err := s.AvailabilityRepo.CreateInterval(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *CatalogService) RemoveAvailability(ctx context.Context, ownerID, listingID, intervalID string) error {
	if _, err := s.requireOwned(ctx, ownerID, listingID); err != nil {
		return err
	}
	return s.AvailabilityRepo.DeleteInterval(ctx, listingID, intervalID)
}

// requireOwned loads the listing and checks the caller owns it.
func (s *CatalogService) requireOwned(ctx context.Context, ownerID, listingID string) (*models.Listing, error) {
	l, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, reservation.NewForbidden("listing belongs to another host")
	}
	return l, nil
}
