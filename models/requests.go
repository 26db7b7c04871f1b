package models

import "time"

// CreateListingInput is the host payload for offering a new listing.
type CreateListingInput struct {
	Name           string             `json:"name" binding:"required"`
	UnitType       UnitType           `json:"unit_type" binding:"required"`
	Policy         AvailabilityPolicy `json:"policy" binding:"required"`
	InstantConfirm bool               `json:"instant_confirm"`
	Currency       string             `json:"currency"`
	CommissionRate *float64           `json:"commission_rate,omitempty"`
	ServiceFeeRate *float64           `json:"service_fee_rate,omitempty"`
	DepositRate    *float64           `json:"deposit_rate,omitempty"`
	CancelPolicy   string             `json:"cancellation_policy,omitempty"`
}

// UpdateListingInput carries the host-editable listing fields. Nil fields
// are left untouched.
type UpdateListingInput struct {
	Name           *string             `json:"name,omitempty"`
	Policy         *AvailabilityPolicy `json:"policy,omitempty"`
	InstantConfirm *bool               `json:"instant_confirm,omitempty"`
	CommissionRate *float64            `json:"commission_rate,omitempty"`
	ServiceFeeRate *float64            `json:"service_fee_rate,omitempty"`
	DepositRate    *float64            `json:"deposit_rate,omitempty"`
	CancelPolicy   *string             `json:"cancellation_policy,omitempty"`
}

// CreateTierInput adds a pricing tier to a listing.
type CreateTierInput struct {
	UnitType UnitType `json:"unit_type" binding:"required"`
	Duration int      `json:"duration" binding:"required,gt=0"`
	Price    float64  `json:"price" binding:"required,gt=0"`
	MinUnits int      `json:"min_units"`
	MaxUnits *int     `json:"max_units,omitempty"`
	Default  bool     `json:"default"`
}

// CreateOverrideInput sets a date-scoped price override on a tier.
type CreateOverrideInput struct {
	TierID string  `json:"tier_id" binding:"required"`
	Date   string  `json:"date" binding:"required"`
	Price  float64 `json:"price" binding:"required,gt=0"`
}

// CreateBlockInput blocks a window on a listing's calendar.
type CreateBlockInput struct {
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	Overnight   bool      `json:"overnight"`
	PrimaryDate string    `json:"primary_date,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

// CreateAvailabilityInput declares explicit bookable time for a
// closed-by-default listing.
type CreateAvailabilityInput struct {
	Start       time.Time `json:"start" binding:"required"`
	End         time.Time `json:"end" binding:"required"`
	UnitType    UnitType  `json:"unit_type,omitempty"`
	Overnight   bool      `json:"overnight"`
	PrimaryDate string    `json:"primary_date,omitempty"`
}

// CreateReservationInput is the guest payload for booking a window.
type CreateReservationInput struct {
	ListingID  string    `json:"listing_id" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	UnitType   UnitType  `json:"unit_type,omitempty"`
	GuestCount int       `json:"guest_count"`
	// TierID pins pricing to an explicit tier instead of auto-selection.
	TierID string `json:"tier_id,omitempty"`
	// HostID selects the host/staff member for slot-queue bookings.
	HostID string `json:"host_id,omitempty"`
	// Method is the intended payment method ("card", "cash").
	Method string `json:"method,omitempty"`
}

// QuoteInput prices a window without reserving it.
type QuoteInput struct {
	ListingID string    `json:"listing_id" binding:"required"`
	Start     time.Time `json:"start" binding:"required"`
	End       time.Time `json:"end" binding:"required"`
	// PreferredUnitType biases tier selection when set.
	PreferredUnitType UnitType `json:"preferred_unit_type,omitempty"`
}

// CancelReservationInput identifies the cancelling actor.
type CancelReservationInput struct {
	CancelledBy CancelledBy `json:"cancelled_by" binding:"required"`
}
