package reservation

import (
	"context"
	"time"

	availabilityRepo "roomify/database/repository/availability"
	listingRepo "roomify/database/repository/listing"
	paymentRepo "roomify/database/repository/payment"
	pricingRepo "roomify/database/repository/pricing"
	reservationRepo "roomify/database/repository/reservation"
	"roomify/models"
	"roomify/services/notification"
)

// Service is the reservation engine surface exposed to the HTTP layer.
type Service interface {
	CheckAvailability(ctx context.Context, listingID string, start, end time.Time) (*AvailabilityResult, error)
	Quote(ctx context.Context, in models.QuoteInput) (*models.Quote, error)
	CreateReservation(ctx context.Context, guestID string, in models.CreateReservationInput) (*models.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string, by models.CancelledBy, actorID string) (*CancelResult, error)
	ListFreeSlots(ctx context.Context, listingID, date string) ([]models.FreeSlot, error)

	Confirm(ctx context.Context, reservationID string) error
	Complete(ctx context.Context, reservationID string) error
	// MarkPaid and MarkFailed apply webhook-driven settlement as plain
	// state transitions; pricing is never re-run.
	MarkPaid(ctx context.Context, reservationID string, amountPaid float64) error
	MarkFailed(ctx context.Context, reservationID string) error
}

// IntentCreator creates a gateway payment intent for a reservation deposit.
type IntentCreator interface {
	CreateIntent(ctx context.Context, res *models.Reservation, method string) (*models.PaymentRecord, error)
}

// ExpiryScheduler enqueues the deposit-deadline auto-cancel task.
type ExpiryScheduler interface {
	ScheduleExpiry(reservationID string, at time.Time) error
}

// FeeConfig carries the platform-default reservation economics. Per-listing
// overrides take precedence.
type FeeConfig struct {
	CommissionRate  float64
	ServiceFeeRate  float64
	DepositRate     float64
	DepositDeadline time.Duration
	MinSlotDuration time.Duration
	DefaultPolicy   string
}

// Engine is the production reservation engine.
type Engine struct {
	ListingRepo      listingRepo.ListingRepository
	PolicyRepo       listingRepo.PolicyRepository
	PricingRepo      pricingRepo.PricingRepository
	AvailabilityRepo availabilityRepo.AvailabilityRepository
	ReservationRepo  reservationRepo.ReservationRepository
	PaymentRepo      paymentRepo.PaymentRepository
	Payments         IntentCreator
	Expiry           ExpiryScheduler
	Events           notification.Publisher
	Fees             FeeConfig
	// Now is the clock source, UTC-normalized. Defaults to time.Now.
	Now func() time.Time
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}
