package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
// pending --confirm--> confirmed --complete--> completed;
// pending|confirmed --cancel--> cancelled.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// PaymentState tracks how much of a reservation has been settled.
type PaymentState string

const (
	PaymentUnpaid      PaymentState = "unpaid"
	PaymentDepositPaid PaymentState = "deposit_paid"
	PaymentPaid        PaymentState = "paid"
	PaymentFailed      PaymentState = "failed"
	PaymentRefunded    PaymentState = "refunded"
)

// QueueStatus is the slot-queue state of a session reservation.
type QueueStatus string

const (
	QueueWaiting QueueStatus = "waiting"
	QueueServed  QueueStatus = "served"
	QueueSkipped QueueStatus = "skipped"
)

// Reservation is a guest's booking of a listing window. Start/end are
// immutable once confirmed; intervals are half-open [start, end) in UTC.
type Reservation struct {
	ID        string `bson:"id" json:"id"`
	ListingID string `bson:"listing_id" json:"listing_id"`
	GuestID   string `bson:"guest_id" json:"guest_id"`
	// HostID is set for slot-queue bookings where a specific host/staff
	// member serves the queue.
	HostID string `bson:"host_id,omitempty" json:"host_id,omitempty"`

	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	UnitType   UnitType  `bson:"unit_type" json:"unit_type"`
	Units      int       `bson:"units" json:"units"`
	GuestCount int       `bson:"guest_count" json:"guest_count"`
	// TierID records the pricing tier in effect at creation time. Later
	// catalog changes never retroactively alter the stored price.
	TierID string `bson:"tier_id,omitempty" json:"tier_id,omitempty"`

	Currency     string  `bson:"currency" json:"currency"`
	TotalPrice   float64 `bson:"total_price" json:"total_price"`
	ServiceFee   float64 `bson:"service_fee" json:"service_fee"`
	Deposit      float64 `bson:"deposit" json:"deposit"`
	Remaining    float64 `bson:"remaining" json:"remaining"`
	Commission   float64 `bson:"commission" json:"commission"`
	HostEarnings float64 `bson:"host_earnings" json:"host_earnings"`
	// AmountPaid is the sum of settled (non-refund) payment records.
	AmountPaid float64 `bson:"amount_paid" json:"amount_paid"`

	Status       ReservationStatus `bson:"status" json:"status"`
	PaymentState PaymentState      `bson:"payment_state" json:"payment_state"`

	// Slot-queue fields, nil for exclusive-occupancy bookings.
	TicketNumber *int         `bson:"ticket_number,omitempty" json:"ticket_number,omitempty"`
	QueueStatus  *QueueStatus `bson:"queue_status,omitempty" json:"queue_status,omitempty"`

	DepositDeadline *time.Time `bson:"deposit_deadline,omitempty" json:"deposit_deadline,omitempty"`
	AutoCancelAt    *time.Time `bson:"auto_cancel_at,omitempty" json:"auto_cancel_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Settled reports whether any payment has actually landed on the
// reservation.
func (r *Reservation) Settled() bool {
	return r.AmountPaid > 0
}

// QueueEntry is the companion record for a slot-queue reservation: one
// numbered turn in the queue for a (listing, host, start) slot.
type QueueEntry struct {
	ID            string      `bson:"id" json:"id"`
	ReservationID string      `bson:"reservation_id" json:"reservation_id"`
	ListingID     string      `bson:"listing_id" json:"listing_id"`
	HostID        string      `bson:"host_id" json:"host_id"`
	Start         time.Time   `bson:"start" json:"start"`
	TicketNumber  int         `bson:"ticket_number" json:"ticket_number"`
	Status        QueueStatus `bson:"status" json:"status"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
}

// SlotLock is an advisory lock document serializing the check-then-insert
// window for one listing time-key. Uniqueness of the key is enforced by a
// unique index; a duplicate-key insert means another writer holds the lock.
type SlotLock struct {
	Key       string    `bson:"_id" json:"key"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
