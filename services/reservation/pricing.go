package reservation

import (
	"context"
	"math"
	"sort"
	"time"

	"roomify/models"
)

// defaultTieBreakMargin: tiers whose cost efficiency is within 10% of the
// best are close enough that the host-designated default wins.
const defaultTieBreakMargin = 1.10

// durationInUnits converts a window to base units for a tier's unit type.
// Hours count fractionally; day and night count calendar spans (a "night"
// of 16 clock hours is still one night); a session covers the whole window.
func durationInUnits(unitType models.UnitType, start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	switch unitType {
	case models.UnitHour:
		return hours
	case models.UnitDay, models.UnitNight:
		return math.Ceil(hours / 24)
	default: // session
		return 1
	}
}

// unitHours is the clock time one base unit effectively covers, used for
// cost-efficiency ranking.
func unitHours(unitType models.UnitType, windowHours float64) float64 {
	switch unitType {
	case models.UnitHour:
		return 1
	case models.UnitDay, models.UnitNight:
		return 24
	default: // session
		return windowHours
	}
}

// unitsNeeded is the tier units required to cover the window.
func unitsNeeded(tier models.PricingTier, start, end time.Time) int {
	units := durationInUnits(tier.UnitType, start, end)
	return int(math.Ceil(units / float64(tier.Duration)))
}

// viable reports whether the window's unit count fits the tier's min/max
// constraints.
func viable(tier models.PricingTier, start, end time.Time) bool {
	n := unitsNeeded(tier, start, end)
	if n <= 0 {
		return false
	}
	if n < tier.MinUnits {
		return false
	}
	if tier.MaxUnits != nil && n > *tier.MaxUnits {
		return false
	}
	return true
}

// efficiency is price per covered clock hour; lower is better.
func efficiency(tier models.PricingTier, windowHours float64) float64 {
	covered := float64(tier.Duration) * unitHours(tier.UnitType, windowHours)
	if covered <= 0 {
		return math.Inf(1)
	}
	return tier.Price / covered
}

// selectTier picks the best-fitting viable tier: a viable tier matching the
// preferred unit type wins outright; otherwise viable tiers are ranked by
// cost efficiency with the default tier breaking near-ties.
func selectTier(tiers []models.PricingTier, start, end time.Time, preferred models.UnitType) *models.PricingTier {
	windowHours := end.Sub(start).Hours()

	var candidates []models.PricingTier
	for _, t := range tiers {
		if viable(t, start, end) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if preferred != "" {
		var matching []models.PricingTier
		for _, t := range candidates {
			if t.UnitType == preferred {
				matching = append(matching, t)
			}
		}
		if len(matching) > 0 {
			candidates = matching
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return efficiency(candidates[i], windowHours) < efficiency(candidates[j], windowHours)
	})

	best := candidates[0]
	bestEff := efficiency(best, windowHours)
	if !best.Default {
		for _, t := range candidates[1:] {
			if t.Default && efficiency(t, windowHours) <= bestEff*defaultTieBreakMargin {
				return &t
			}
		}
	}
	return &best
}

// Price computes the total for [start, end) using the listing's catalog.
// The window is walked one pricing step at a time so date-scoped overrides
// apply to exactly the dates they name: a booking spanning several dates
// can mix override and base prices.
func (e *Engine) Price(ctx context.Context, listing *models.Listing, start, end time.Time, preferred models.UnitType, tierID string) (*models.Quote, error) {
	if !start.Before(end) {
		return nil, NewInvalidWindow("start must be before end")
	}
	start, end = start.UTC(), end.UTC()

	var tier *models.PricingTier
	if tierID != "" {
		t, err := e.PricingRepo.GetTier(ctx, tierID)
		if err != nil {
			return nil, wrapError(CodeNotFound, "pricing tier not found", err)
		}
		if t.ListingID != listing.ID {
			return nil, NewForbidden("pricing tier does not belong to listing")
		}
		if !viable(*t, start, end) {
			return nil, NewInvalidWindow("requested duration outside tier limits")
		}
		tier = t
	} else {
		tiers, err := e.PricingRepo.GetTiersByListing(ctx, listing.ID)
		if err != nil {
			return nil, wrapError(CodePricingUnresolvable, "failed to load pricing catalog", err)
		}
		tier = selectTier(tiers, start, end, preferred)
		if tier == nil {
			return nil, NewPricingUnresolvable("no pricing available for requested duration")
		}
	}

	units := unitsNeeded(*tier, start, end)
	if units < tier.MinUnits {
		units = tier.MinUnits
	}

	dates := unitDates(*tier, start, units)
	overrides, err := e.PricingRepo.GetOverrides(ctx, tier.ID, distinct(dates))
	if err != nil {
		return nil, wrapError(CodePricingUnresolvable, "failed to load price overrides", err)
	}

	total := 0.0
	for _, date := range dates {
		if price, ok := overrides[date]; ok {
			total += price
		} else {
			total += tier.Price
		}
	}

	return &models.Quote{
		ListingID:   listing.ID,
		TierID:      tier.ID,
		UnitType:    tier.UnitType,
		UnitsBilled: units,
		TotalPrice:  round2(total),
		Currency:    listing.Currency,
	}, nil
}

// unitDates returns the calendar date owning each billed unit, in billing
// order. Hour tiers step by the tier's hour block from the window start;
// date-scoped tiers step one tier span of days at a time.
func unitDates(tier models.PricingTier, start time.Time, units int) []string {
	dates := make([]string, 0, units)
	for i := 0; i < units; i++ {
		var t time.Time
		if tier.UnitType == models.UnitHour {
			t = start.Add(time.Duration(i*tier.Duration) * time.Hour)
		} else {
			t = start.AddDate(0, 0, i*tier.Duration)
		}
		dates = append(dates, models.PrimaryDate(t))
	}
	return dates
}

func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Quote prices a window without reserving it.
func (e *Engine) Quote(ctx context.Context, in models.QuoteInput) (*models.Quote, error) {
	listing, err := e.ListingRepo.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, wrapError(CodeNotFound, "listing not found", err)
	}
	preferred := in.PreferredUnitType
	if preferred == "" {
		preferred = listing.UnitType
	}
	return e.Price(ctx, listing, in.Start, in.End, preferred, "")
}
