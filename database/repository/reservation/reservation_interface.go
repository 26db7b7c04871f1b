package reservationRepo

import (
	"context"
	"time"

	"roomify/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReservationRepository persists reservations, queue entries, and the
// serialization primitives the orchestrator's write path needs. Methods
// accept a plain context or a mongo session context; passing the session
// context joins the surrounding transaction.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *models.Reservation) error
	GetByID(ctx context.Context, id string) (*models.Reservation, error)
	// FindOverlapping returns reservations with status pending or confirmed
	// whose [start, end) overlaps the given half-open window.
	FindOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error)
	// FindInRange returns pending/confirmed reservations intersecting the
	// window, for display purposes (slot splitting).
	FindInRange(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	// ApplyPayment adds the settled amount and moves the payment state.
	ApplyPayment(ctx context.Context, id string, amount float64, state models.PaymentState) error
	SetPaymentState(ctx context.Context, id string, state models.PaymentState) error

	// NextTicketNumber atomically increments and returns the ticket counter
	// for the (listing, host, start) slot-queue key. The first ticket is 1.
	NextTicketNumber(ctx context.Context, listingID, hostID string, start time.Time) (int, error)
	CreateQueueEntry(ctx context.Context, entry *models.QueueEntry) error
	UpdateQueueStatus(ctx context.Context, reservationID string, status models.QueueStatus) error

	// ExecuteTransaction runs fn inside a multi-document transaction,
	// committing on nil and rolling back on error.
	ExecuteTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error

	// AcquireSlotLock takes the advisory lock for a listing time-key.
	// A duplicate-key error means another writer holds it.
	AcquireSlotLock(ctx context.Context, key string) error
	ReleaseSlotLock(ctx context.Context, key string) error
}

// IsDuplicateKey reports whether err is a mongo duplicate-key write error,
// the signal for a lost lock or ticket race.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
