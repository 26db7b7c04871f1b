package models

import "time"

// PaymentRecord is an append-only ledger entry for a reservation. Refunds
// are recorded as separate negative-amount entries; the original row is
// never mutated.
type PaymentRecord struct {
	ID            string  `bson:"id" json:"id"`
	ReservationID string  `bson:"reservation_id" json:"reservation_id"`
	Amount        float64 `bson:"amount" json:"amount"` // negative for refunds
	Currency      string  `bson:"currency" json:"currency"`
	Method        string  `bson:"method,omitempty" json:"method,omitempty"` // "card", "cash"
	Status        string  `bson:"status" json:"status"`                     // "pending", "settled", "failed"
	// IntentID links the record to the gateway payment intent, when one
	// was created.
	IntentID  string    `bson:"intent_id,omitempty" json:"intent_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
