package models

import "time"

// PrimaryDateLayout is the calendar-date format used for overnight matching
// and price overrides.
const PrimaryDateLayout = "2006-01-02"

// PrimaryDate returns the calendar date that owns an interval starting at t.
// For an overnight booking (a "night" spanning two clock days) this is the
// check-in date.
func PrimaryDate(t time.Time) string {
	return t.UTC().Format(PrimaryDateLayout)
}

// BlockedInterval marks host-declared unavailable time on a listing.
// Intervals are half-open [start, end) in UTC.
type BlockedInterval struct {
	ID        string    `bson:"id" json:"id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"`
	// PrimaryDate is set for day/night listings: an overnight block owns one
	// calendar date even though it spans two clock days.
	PrimaryDate string    `bson:"primary_date,omitempty" json:"primary_date,omitempty"`
	Overnight   bool      `bson:"overnight,omitempty" json:"overnight,omitempty"`
	Reason      string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// AvailabilityInterval is explicit bookable time, consulted only when the
// listing policy is closed-by-default.
type AvailabilityInterval struct {
	ID        string    `bson:"id" json:"id"`
	ListingID string    `bson:"listing_id" json:"listing_id"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"`
	Available bool      `bson:"available" json:"available"`
	// UnitType the entry was declared for. A night request may resolve
	// against a day entry and vice versa; the resolver reports which.
	UnitType    UnitType  `bson:"unit_type" json:"unit_type"`
	PrimaryDate string    `bson:"primary_date,omitempty" json:"primary_date,omitempty"`
	Overnight   bool      `bson:"overnight,omitempty" json:"overnight,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// Overlaps reports half-open interval overlap: a.start < b.end && a.end > b.start.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Covers reports whether [outerStart, outerEnd) fully contains [innerStart, innerEnd).
func Covers(outerStart, outerEnd, innerStart, innerEnd time.Time) bool {
	return !outerStart.After(innerStart) && !outerEnd.Before(innerEnd)
}

// FreeSlot is a display-only bookable sub-range produced by the slot
// splitter.
type FreeSlot struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Partial bool      `json:"partial"`
}
