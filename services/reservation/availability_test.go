package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"roomify/models"
)

func TestIsAvailableOpenPolicyNoConflicts(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	result, err := e.IsAvailable(context.Background(), l, start, end, models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available, got reason %q", result.Reason)
	}
	if result.EffectiveUnitType != models.UnitHour {
		t.Errorf("effective unit type = %q, want %q", result.EffectiveUnitType, models.UnitHour)
	}
}

func TestIsAvailableInactiveListing(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)
	l.Active = false

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	result, err := e.IsAvailable(context.Background(), l, start, start.Add(time.Hour), models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("inactive listing must not be available")
	}
	if result.Reason != ReasonInactive {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonInactive)
	}
}

func TestIsAvailableConflictingReservation(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	existing := models.Reservation{ID: "r-1", ListingID: l.ID, Start: start, End: end}
	resvRepo.FindOverlappingFn = func(ctx context.Context, listingID string, s, e time.Time) ([]models.Reservation, error) {
		return []models.Reservation{existing}, nil
	}

	result, err := e.IsAvailable(context.Background(), l, start, end, models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("overlapping reservation must block the window")
	}
	if result.Reason != ReasonConflict {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonConflict)
	}
	if result.Conflict == nil || result.Conflict.ID != "r-1" {
		t.Error("expected conflicting reservation to be surfaced")
	}
}

func TestIsAvailableSessionIgnoresReservationOverlap(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	l := testListing(models.UnitSession, models.PolicyOpenByDefault)

	// A session slot shares occupancy; existing reservations must not be
	// consulted at all.
	resvRepo.FindOverlappingFn = func(ctx context.Context, listingID string, s, e time.Time) ([]models.Reservation, error) {
		t.Fatal("session availability must not check reservation overlap")
		return nil, nil
	}

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	result, err := e.IsAvailable(context.Background(), l, start, start.Add(time.Hour), models.UnitSession)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("expected available, got reason %q", result.Reason)
	}
}

func TestIsAvailableBlockedWindow(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	e.AvailabilityRepo = &mockAvailabilityRepo{
		GetBlocksOverlappingFn: func(ctx context.Context, listingID string, s, en time.Time) ([]models.BlockedInterval, error) {
			return []models.BlockedInterval{{ID: "b-1", ListingID: listingID, Start: start, End: end}}, nil
		},
	}

	result, err := e.IsAvailable(context.Background(), l, start, end, models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("blocked window must not be available")
	}
	if result.Reason != ReasonBlocked {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonBlocked)
	}
}

func TestIsAvailableOvernightBlockMatchesByPrimaryDate(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitNight, models.PolicyOpenByDefault)

	// The block covers only the evening hours of June 10, but it owns the
	// date: a night request for June 10 must be rejected even though the
	// clock windows barely overlap.
	e.AvailabilityRepo = &mockAvailabilityRepo{
		GetBlocksByPrimaryDateFn: func(ctx context.Context, listingID, date string) ([]models.BlockedInterval, error) {
			if date != "2025-06-10" {
				return nil, nil
			}
			return []models.BlockedInterval{{
				ID: "b-1", ListingID: listingID,
				Start:       time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC),
				End:         time.Date(2025, 6, 11, 2, 0, 0, 0, time.UTC),
				Overnight:   true,
				PrimaryDate: "2025-06-10",
			}}, nil
		},
	}

	start := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	result, err := e.IsAvailable(context.Background(), l, start, end, models.UnitNight)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("overnight block sharing the primary date must reject the night request")
	}
	if result.Reason != ReasonBlocked {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonBlocked)
	}
}

func TestIsAvailableClosedPolicyNeedsFullCoverage(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyClosedByDefault)

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	// Partial coverage: the entry ends an hour short of the request.
	e.AvailabilityRepo = &mockAvailabilityRepo{
		GetIntervalsOverlappingFn: func(ctx context.Context, listingID string, s, en time.Time) ([]models.AvailabilityInterval, error) {
			return []models.AvailabilityInterval{{
				ID: "iv-1", ListingID: listingID,
				Start: start, End: end.Add(-time.Hour),
				Available: true, UnitType: models.UnitHour,
			}}, nil
		},
	}
	result, err := e.IsAvailable(context.Background(), l, start, end, models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("partial coverage must not be bookable under closed-by-default")
	}
	if result.Reason != ReasonNoExplicit {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonNoExplicit)
	}

	// Full coverage flips the verdict.
	e.AvailabilityRepo = &mockAvailabilityRepo{
		GetIntervalsOverlappingFn: func(ctx context.Context, listingID string, s, en time.Time) ([]models.AvailabilityInterval, error) {
			return []models.AvailabilityInterval{{
				ID: "iv-1", ListingID: listingID,
				Start: start.Add(-time.Hour), End: end.Add(time.Hour),
				Available: true, UnitType: models.UnitHour,
			}}, nil
		},
	}
	result, err = e.IsAvailable(context.Background(), l, start, end, models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("fully covered window should be bookable, got reason %q", result.Reason)
	}
}

func TestIsAvailableClosedPolicyNoEntries(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyClosedByDefault)

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	result, err := e.IsAvailable(context.Background(), l, start, start.Add(time.Hour), models.UnitHour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Available {
		t.Fatal("closed-by-default listing with no entries must not be available")
	}
	if result.Reason != ReasonNoExplicit {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonNoExplicit)
	}
}

func TestIsAvailableNightResolvesAgainstDayEntry(t *testing.T) {
	e, _, _ := newTestEngine()
	l := testListing(models.UnitNight, models.PolicyClosedByDefault)

	// Only a "day" entry exists for the date; a night request should
	// resolve against the sibling and report day as the effective type.
	e.AvailabilityRepo = &mockAvailabilityRepo{
		GetIntervalsByPrimaryDateFn: func(ctx context.Context, listingID, date string) ([]models.AvailabilityInterval, error) {
			if date != "2025-06-10" {
				return nil, nil
			}
			return []models.AvailabilityInterval{{
				ID: "iv-1", ListingID: listingID,
				Start:       time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
				End:         time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
				Available:   true,
				UnitType:    models.UnitDay,
				Overnight:   true,
				PrimaryDate: "2025-06-10",
			}}, nil
		},
	}

	start := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 11, 11, 0, 0, 0, time.UTC)
	result, err := e.IsAvailable(context.Background(), l, start, end, models.UnitNight)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Available {
		t.Fatalf("night request should resolve against day entry, got reason %q", result.Reason)
	}
	if result.EffectiveUnitType != models.UnitDay {
		t.Errorf("effective unit type = %q, want %q", result.EffectiveUnitType, models.UnitDay)
	}
}

func TestIsAvailableFailsClosedOnLookupError(t *testing.T) {
	e, resvRepo, _ := newTestEngine()
	l := testListing(models.UnitHour, models.PolicyOpenByDefault)

	resvRepo.FindOverlappingFn = func(ctx context.Context, listingID string, s, en time.Time) ([]models.Reservation, error) {
		return nil, errors.New("connection reset")
	}

	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	result, err := e.IsAvailable(context.Background(), l, start, start.Add(time.Hour), models.UnitHour)
	if err == nil {
		t.Fatal("lookup failure must surface an error")
	}
	if result == nil || result.Available {
		t.Fatal("lookup failure must resolve to unavailable, never available")
	}
	if result.Reason != ReasonCheckFailed {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonCheckFailed)
	}
	if !IsCode(err, CodeUnavailable) {
		t.Errorf("error code = %q, want %q", CodeOf(err), CodeUnavailable)
	}
}

func TestCheckAvailabilityRejectsInvertedWindow(t *testing.T) {
	e, _, _ := newTestEngine()
	start := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	if _, err := e.CheckAvailability(context.Background(), "listing-1", start, start); !IsCode(err, CodeInvalidWindow) {
		t.Errorf("zero-length window: code = %q, want %q", CodeOf(err), CodeInvalidWindow)
	}
	if _, err := e.CheckAvailability(context.Background(), "listing-1", start, start.Add(-time.Hour)); !IsCode(err, CodeInvalidWindow) {
		t.Errorf("inverted window: code = %q, want %q", CodeOf(err), CodeInvalidWindow)
	}
}
