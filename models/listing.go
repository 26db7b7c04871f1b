package models

import "time"

// UnitType is the billing granularity of a listing.
type UnitType string

const (
	UnitHour    UnitType = "hour"
	UnitDay     UnitType = "day"
	UnitNight   UnitType = "night"
	UnitSession UnitType = "session"
)

// Valid reports whether the unit type is one of the supported kinds.
func (u UnitType) Valid() bool {
	switch u {
	case UnitHour, UnitDay, UnitNight, UnitSession:
		return true
	}
	return false
}

// Exclusive reports whether the unit type implies exclusive occupancy of the
// booked window. Session (slot-queue) bookings share a slot via numbered
// tickets instead.
func (u UnitType) Exclusive() bool {
	return u != UnitSession
}

// Overnight reports whether intervals of this unit type are matched by their
// primary calendar date rather than by raw clock overlap.
func (u UnitType) Overnight() bool {
	return u == UnitDay || u == UnitNight
}

// Sibling returns the unit type an overnight request may also resolve
// against: a "night" request can be satisfied by a "day" entry and vice
// versa. For other types it returns the type itself.
func (u UnitType) Sibling() UnitType {
	switch u {
	case UnitDay:
		return UnitNight
	case UnitNight:
		return UnitDay
	}
	return u
}

// AvailabilityPolicy controls how un-annotated time on a listing's calendar
// is treated.
type AvailabilityPolicy string

const (
	// PolicyOpenByDefault: any window without a block or conflicting
	// reservation is bookable.
	PolicyOpenByDefault AvailabilityPolicy = "open"
	// PolicyClosedByDefault: a window is bookable only when an explicit
	// availability interval fully covers it.
	PolicyClosedByDefault AvailabilityPolicy = "closed"
)

// Listing is a host-offered time-bounded resource (room, equipment,
// appointment slot). Listings are soft-disabled, never hard-deleted while
// reservations reference them.
type Listing struct {
	ID             string             `bson:"id" json:"id"`
	OwnerID        string             `bson:"owner_id" json:"owner_id"`
	Name           string             `bson:"name" json:"name"`
	UnitType       UnitType           `bson:"unit_type" json:"unit_type"`
	Policy         AvailabilityPolicy `bson:"policy" json:"policy"`
	InstantConfirm bool               `bson:"instant_confirm" json:"instant_confirm"`
	Active         bool               `bson:"active" json:"active"`
	Currency       string             `bson:"currency" json:"currency"`

	// Per-listing economics. Nil means "use the platform default".
	CommissionRate *float64 `bson:"commission_rate,omitempty" json:"commission_rate,omitempty"`
	ServiceFeeRate *float64 `bson:"service_fee_rate,omitempty" json:"service_fee_rate,omitempty"`
	DepositRate    *float64 `bson:"deposit_rate,omitempty" json:"deposit_rate,omitempty"`

	// Name of the cancellation policy applied to this listing's
	// reservations. Empty means the platform default policy.
	CancellationPolicy string `bson:"cancellation_policy,omitempty" json:"cancellation_policy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
