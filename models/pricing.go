package models

import "time"

// PricingTier is a priced bundle of units with min/max booking-size
// constraints, e.g. a "3-hour block" at a set price.
type PricingTier struct {
	ID        string   `bson:"id" json:"id"`
	ListingID string   `bson:"listing_id" json:"listing_id"`
	UnitType  UnitType `bson:"unit_type" json:"unit_type"`
	// Duration is the number of base units one tier unit covers
	// (e.g. 3 for a 3-hour block). Always > 0.
	Duration int     `bson:"duration" json:"duration"`
	Price    float64 `bson:"price" json:"price"`
	MinUnits int     `bson:"min_units" json:"min_units"`
	// MaxUnits is nil when the tier is unbounded.
	MaxUnits *int `bson:"max_units,omitempty" json:"max_units,omitempty"`
	// At most one tier per listing carries the default flag.
	Default   bool      `bson:"default" json:"default"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// PriceOverride replaces a tier's base price on one calendar date.
// At most one override exists per (tier, date).
type PriceOverride struct {
	ID        string  `bson:"id" json:"id"`
	ListingID string  `bson:"listing_id" json:"listing_id"`
	TierID    string  `bson:"tier_id" json:"tier_id"`
	Date      string  `bson:"date" json:"date"` // "2006-01-02"
	Price     float64 `bson:"price" json:"price"`
}

// Quote is the result of pricing a window against the catalog.
type Quote struct {
	ListingID   string   `json:"listing_id"`
	TierID      string   `json:"tier_id"`
	UnitType    UnitType `json:"unit_type"`
	UnitsBilled int      `json:"units_billed"`
	TotalPrice  float64  `json:"total_price"`
	Currency    string   `json:"currency"`
}
