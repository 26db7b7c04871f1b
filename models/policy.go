package models

// CancellationPolicy defines refund percentages around a day threshold
// before the reservation start.
type CancellationPolicy struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
	// RefundBeforeDays is the threshold in whole days before start.
	RefundBeforeDays int `bson:"refund_before_days" json:"refund_before_days"`
	// Refund percentage (0..100) when cancelling at least RefundBeforeDays
	// before start.
	BeforePercentage float64 `bson:"before_percentage" json:"before_percentage"`
	// Refund percentage (0..100) when cancelling later but before start.
	AfterPercentage float64 `bson:"after_percentage" json:"after_percentage"`
}

// CancelledBy identifies who initiated a cancellation.
type CancelledBy string

const (
	CancelledByGuest CancelledBy = "guest"
	CancelledByHost  CancelledBy = "host"
)
