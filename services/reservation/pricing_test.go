package reservation

import (
	"context"
	"testing"
	"time"

	"roomify/models"
)

func hourTier(id string, blockHours int, price float64) models.PricingTier {
	return models.PricingTier{
		ID: id, ListingID: "listing-1",
		UnitType: models.UnitHour, Duration: blockHours, Price: price,
	}
}

func TestSelectTierPrefersCostEfficiency(t *testing.T) {
	// $10/hour single-hour tier vs a 3-hour block at $24 ($8/hour): the
	// block is the better deal for a 3-hour window.
	tiers := []models.PricingTier{
		hourTier("single", 1, 10),
		hourTier("block3", 3, 24),
	}
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	got := selectTier(tiers, start, end, "")
	if got == nil || got.ID != "block3" {
		t.Fatalf("selected tier = %+v, want block3", got)
	}
}

func TestSelectTierDefaultBreaksNearTies(t *testing.T) {
	// The default tier is within 10% of the best efficiency, so it wins
	// the near-tie.
	def := hourTier("default", 1, 10.5)
	def.Default = true
	tiers := []models.PricingTier{
		hourTier("cheapest", 1, 10),
		def,
	}
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	got := selectTier(tiers, start, end, "")
	if got == nil || got.ID != "default" {
		t.Fatalf("selected tier = %+v, want default", got)
	}

	// Push the default past the margin and the cheapest wins again.
	tiers[1].Price = 12
	got = selectTier(tiers, start, end, "")
	if got == nil || got.ID != "cheapest" {
		t.Fatalf("selected tier = %+v, want cheapest", got)
	}
}

func TestSelectTierRespectsMinMaxUnits(t *testing.T) {
	constrained := hourTier("constrained", 1, 5)
	constrained.MinUnits = 2
	constrained.MaxUnits = intPtr(4)
	tiers := []models.PricingTier{constrained}

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	if got := selectTier(tiers, start, start.Add(time.Hour), ""); got != nil {
		t.Errorf("1 hour is below min units, want no tier, got %q", got.ID)
	}
	if got := selectTier(tiers, start, start.Add(3*time.Hour), ""); got == nil {
		t.Error("3 hours fits [2,4], want the tier")
	}
	if got := selectTier(tiers, start, start.Add(6*time.Hour), ""); got != nil {
		t.Errorf("6 hours exceeds max units, want no tier, got %q", got.ID)
	}
}

func TestSelectTierPreferredUnitTypeWinsOutright(t *testing.T) {
	night := models.PricingTier{
		ID: "night", ListingID: "listing-1",
		UnitType: models.UnitNight, Duration: 1, Price: 500,
	}
	day := models.PricingTier{
		ID: "day", ListingID: "listing-1",
		UnitType: models.UnitDay, Duration: 1, Price: 100,
	}
	tiers := []models.PricingTier{night, day}

	start := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 11, 11, 0, 0, 0, time.UTC)

	// The day tier is far cheaper, but the caller asked for nights.
	got := selectTier(tiers, start, end, models.UnitNight)
	if got == nil || got.ID != "night" {
		t.Fatalf("selected tier = %+v, want night", got)
	}
}

func TestPriceAppliesDateOverridesPerUnit(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitNight, models.PolicyOpenByDefault)

	tier := models.PricingTier{
		ID: "tier-night", ListingID: l.ID,
		UnitType: models.UnitNight, Duration: 1, Price: 200,
	}
	e.PricingRepo = &mockPricingRepo{
		GetTiersByListingFn: func(ctx context.Context, listingID string) ([]models.PricingTier, error) {
			return []models.PricingTier{tier}, nil
		},
		GetOverridesFn: func(ctx context.Context, tierID string, dates []string) (map[string]float64, error) {
			// Only the first night is overridden.
			return map[string]float64{"2025-06-10": 300}, nil
		},
	}

	start := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 12, 11, 0, 0, 0, time.UTC)

	quote, err := e.Price(context.Background(), l, start, end, models.UnitNight, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.UnitsBilled != 2 {
		t.Errorf("units billed = %d, want 2", quote.UnitsBilled)
	}
	// Night one at the 300 override, night two at the 200 base.
	if quote.TotalPrice != 500 {
		t.Errorf("total = %v, want 500", quote.TotalPrice)
	}
	if quote.UnitType != models.UnitNight {
		t.Errorf("unit type = %q, want night", quote.UnitType)
	}
}

func TestPriceBillsAtLeastMinUnits(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitNight, models.PolicyOpenByDefault)

	tier := models.PricingTier{
		ID: "tier-min", ListingID: l.ID,
		UnitType: models.UnitNight, Duration: 1, Price: 100, MinUnits: 1,
	}
	e.PricingRepo = &mockPricingRepo{
		GetTiersByListingFn: func(ctx context.Context, listingID string) ([]models.PricingTier, error) {
			return []models.PricingTier{tier}, nil
		},
	}

	// A 16-hour overnight stay still bills one full night.
	start := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	quote, err := e.Price(context.Background(), l, start, end, models.UnitNight, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.UnitsBilled != 1 {
		t.Errorf("units billed = %d, want 1", quote.UnitsBilled)
	}
	if quote.TotalPrice != 100 {
		t.Errorf("total = %v, want 100", quote.TotalPrice)
	}
}

func TestPriceMonotonicWithDuration(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)

	e.PricingRepo = &mockPricingRepo{
		GetTiersByListingFn: func(ctx context.Context, listingID string) ([]models.PricingTier, error) {
			return []models.PricingTier{hourTier("hourly", 1, 15)}, nil
		},
	}

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	prev := 0.0
	for hours := 1; hours <= 6; hours++ {
		quote, err := e.Price(context.Background(), l, start, start.Add(time.Duration(hours)*time.Hour), models.UnitHour, "")
		if err != nil {
			t.Fatalf("hours=%d: unexpected error: %v", hours, err)
		}
		if quote.TotalPrice < prev {
			t.Fatalf("hours=%d: total %v dropped below %v", hours, quote.TotalPrice, prev)
		}
		prev = quote.TotalPrice
	}
}

func TestPriceNoViableTier(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)

	constrained := hourTier("constrained", 1, 5)
	constrained.MinUnits = 10
	e.PricingRepo = &mockPricingRepo{
		GetTiersByListingFn: func(ctx context.Context, listingID string) ([]models.PricingTier, error) {
			return []models.PricingTier{constrained}, nil
		},
	}

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	_, err := e.Price(context.Background(), l, start, start.Add(time.Hour), models.UnitHour, "")
	if !IsCode(err, CodePricingUnresolvable) {
		t.Errorf("code = %q, want %q", CodeOf(err), CodePricingUnresolvable)
	}
}

func TestPriceExplicitTierValidation(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	// Tier belonging to a different listing is rejected.
	foreign := hourTier("foreign", 1, 10)
	foreign.ListingID = "other-listing"
	e.PricingRepo = &mockPricingRepo{
		GetTierFn: func(ctx context.Context, tierID string) (*models.PricingTier, error) {
			return &foreign, nil
		},
	}
	_, err := e.Price(context.Background(), l, start, start.Add(time.Hour), models.UnitHour, "foreign")
	if !IsCode(err, CodeForbidden) {
		t.Errorf("foreign tier: code = %q, want %q", CodeOf(err), CodeForbidden)
	}

	// Tier whose limits exclude the window is rejected.
	tight := hourTier("tight", 1, 10)
	tight.MaxUnits = intPtr(1)
	tight.ListingID = l.ID
	e.PricingRepo = &mockPricingRepo{
		GetTierFn: func(ctx context.Context, tierID string) (*models.PricingTier, error) {
			return &tight, nil
		},
	}
	_, err = e.Price(context.Background(), l, start, start.Add(3*time.Hour), models.UnitHour, "tight")
	if !IsCode(err, CodeInvalidWindow) {
		t.Errorf("out-of-limits tier: code = %q, want %q", CodeOf(err), CodeInvalidWindow)
	}
}
