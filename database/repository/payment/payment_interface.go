package paymentRepo

import (
	"context"

	"roomify/models"
)

// PaymentRepository is an append-only ledger of payment records. Refunds
// are new negative-amount entries; existing records are never mutated.
type PaymentRepository interface {
	Create(ctx context.Context, record *models.PaymentRecord) error
	ListByReservation(ctx context.Context, reservationID string) ([]models.PaymentRecord, error)
	// SumSettled returns the net settled amount for a reservation
	// (payments minus refunds).
	SumSettled(ctx context.Context, reservationID string) (float64, error)
}
