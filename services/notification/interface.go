package notification

import (
	"context"

	"roomify/models"
)

// Reservation lifecycle event names published to the event stream.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationPaid      = "reservation.paid"
)

// Publisher emits reservation lifecycle events for downstream consumers
// (messaging/notification services are external collaborators; only the
// event stream is owned here).
type Publisher interface {
	Publish(ctx context.Context, event string, reservation *models.Reservation) error
	Close() error
}

// NopPublisher discards events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, *models.Reservation) error { return nil }
func (NopPublisher) Close() error                                               { return nil }
