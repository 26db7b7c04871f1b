package reservation

import (
	"context"
	"time"

	"roomify/models"
	"roomify/utils"

	"go.uber.org/zap"
)

// Availability reasons surfaced to callers.
const (
	ReasonInactive    = "listing is not active"
	ReasonConflict    = "conflicts with existing reservation"
	ReasonBlocked     = "blocked by host"
	ReasonNoExplicit  = "no explicit availability"
	ReasonCheckFailed = "availability check failed"
)

// AvailabilityResult is the resolver's verdict on a requested window.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	// EffectiveUnitType is the unit type the window actually resolved
	// against: a night request may be satisfied by a day availability entry
	// and vice versa. Pricing and storage follow this value.
	EffectiveUnitType models.UnitType `json:"effective_unit_type,omitempty"`
	// Conflict surfaces the colliding reservation for diagnostics.
	Conflict *models.Reservation `json:"conflict,omitempty"`
}

// IsAvailable decides whether [start, end) is bookable on the listing for
// the requested unit type. Any ledger lookup failure degrades to
// unavailable: the resolver fails closed, never open.
func (e *Engine) IsAvailable(ctx context.Context, listing *models.Listing, start, end time.Time, requested models.UnitType) (*AvailabilityResult, error) {
	logger := utils.GetLogger()

	if requested == "" {
		requested = listing.UnitType
	}

	if !listing.Active {
		return &AvailabilityResult{Available: false, Reason: ReasonInactive}, nil
	}

	// Existing reservations occupy the calendar only for exclusive unit
	// types; slot-queue sessions share their slot via tickets.
	if requested.Exclusive() {
		overlapping, err := e.ReservationRepo.FindOverlapping(ctx, listing.ID, start, end)
		if err != nil {
			logger.Error("availability: reservation lookup failed",
				zap.String("listingID", listing.ID), zap.Error(err))
			return &AvailabilityResult{Available: false, Reason: ReasonCheckFailed}, wrapError(CodeUnavailable, ReasonCheckFailed, err)
		}
		if len(overlapping) > 0 {
			return &AvailabilityResult{
				Available: false,
				Reason:    ReasonConflict,
				Conflict:  &overlapping[0],
			}, nil
		}
	}

	blocked, err := e.findBlocks(ctx, listing, start, end, requested)
	if err != nil {
		logger.Error("availability: blocked interval lookup failed",
			zap.String("listingID", listing.ID), zap.Error(err))
		return &AvailabilityResult{Available: false, Reason: ReasonCheckFailed}, wrapError(CodeUnavailable, ReasonCheckFailed, err)
	}
	if len(blocked) > 0 {
		return &AvailabilityResult{Available: false, Reason: ReasonBlocked}, nil
	}

	if listing.Policy == models.PolicyOpenByDefault {
		return &AvailabilityResult{Available: true, EffectiveUnitType: requested}, nil
	}

	// Closed-by-default: require one explicit availability entry that fully
	// covers the window. Partial coverage is not bookable.
	effective, err := e.findCoveringInterval(ctx, listing, start, end, requested)
	if err != nil {
		logger.Error("availability: interval lookup failed",
			zap.String("listingID", listing.ID), zap.Error(err))
		return &AvailabilityResult{Available: false, Reason: ReasonCheckFailed}, wrapError(CodeUnavailable, ReasonCheckFailed, err)
	}
	if effective == "" {
		return &AvailabilityResult{Available: false, Reason: ReasonNoExplicit}, nil
	}
	return &AvailabilityResult{Available: true, EffectiveUnitType: effective}, nil
}

// findBlocks gathers blocks colliding with the window. For day/night unit
// types an overnight block is keyed by its primary date and matches any
// request sharing that date, regardless of clock-time fraction; the naive
// half-open test would miss or over-match a night spanning two clock days.
func (e *Engine) findBlocks(ctx context.Context, listing *models.Listing, start, end time.Time, requested models.UnitType) ([]models.BlockedInterval, error) {
	blocks, err := e.AvailabilityRepo.GetBlocksOverlapping(ctx, listing.ID, start, end)
	if err != nil {
		return nil, err
	}

	if requested.Overnight() {
		dateBlocks, err := e.AvailabilityRepo.GetBlocksByPrimaryDate(ctx, listing.ID, models.PrimaryDate(start))
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(blocks))
		for _, b := range blocks {
			seen[b.ID] = true
		}
		for _, b := range dateBlocks {
			if !seen[b.ID] {
				blocks = append(blocks, b)
			}
		}
	}
	return blocks, nil
}

// findCoveringInterval looks for an explicit availability entry fully
// covering the window, preferring the requested unit type over its
// overnight sibling. The returned unit type is the one actually satisfied.
func (e *Engine) findCoveringInterval(ctx context.Context, listing *models.Listing, start, end time.Time, requested models.UnitType) (models.UnitType, error) {
	candidates, err := e.AvailabilityRepo.GetIntervalsOverlapping(ctx, listing.ID, start, end)
	if err != nil {
		return "", err
	}

	if requested.Overnight() {
		dateEntries, err := e.AvailabilityRepo.GetIntervalsByPrimaryDate(ctx, listing.ID, models.PrimaryDate(start))
		if err != nil {
			return "", err
		}
		seen := make(map[string]bool, len(candidates))
		for _, iv := range candidates {
			seen[iv.ID] = true
		}
		for _, iv := range dateEntries {
			if !seen[iv.ID] {
				candidates = append(candidates, iv)
			}
		}
	}

	covers := func(iv models.AvailabilityInterval) bool {
		if models.Covers(iv.Start, iv.End, start, end) {
			return true
		}
		// An overnight entry owns its primary date outright.
		return requested.Overnight() && iv.Overnight && iv.PrimaryDate == models.PrimaryDate(start)
	}

	unitOf := func(iv models.AvailabilityInterval) models.UnitType {
		if iv.UnitType == "" {
			return listing.UnitType
		}
		return iv.UnitType
	}

	for _, iv := range candidates {
		if unitOf(iv) == requested && covers(iv) {
			return requested, nil
		}
	}
	if sibling := requested.Sibling(); sibling != requested {
		for _, iv := range candidates {
			if unitOf(iv) == sibling && covers(iv) {
				return sibling, nil
			}
		}
	}
	return "", nil
}

// CheckAvailability is the read-only entry point for the HTTP layer.
func (e *Engine) CheckAvailability(ctx context.Context, listingID string, start, end time.Time) (*AvailabilityResult, error) {
	if !start.Before(end) {
		return nil, NewInvalidWindow("start must be before end")
	}
	listing, err := e.ListingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, wrapError(CodeNotFound, "listing not found", err)
	}
	result, err := e.IsAvailable(ctx, listing, start.UTC(), end.UTC(), listing.UnitType)
	if err != nil {
		// Fail-closed verdict still carries an answer for the caller.
		return result, err
	}
	return result, nil
}
