package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the reservation
// collections. The unique (listing_id, host_id, start, ticket_number)
// queue index backs the no-duplicate-ticket invariant; slot lock documents
// are expired by a TTL index so a crashed writer cannot wedge a slot.
func (r *MongoReservationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reservationIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("listing_status_window_idx"),
		},
		{
			Keys:    bson.D{{Key: "guest_id", Value: 1}},
			Options: options.Index().SetName("guest_idx"),
		},
	}
	if _, err := r.reservationColl.Indexes().CreateMany(ctx, reservationIndexes); err != nil {
		return fmt.Errorf("failed to create reservation indexes: %w", err)
	}

	queueIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "listing_id", Value: 1},
				{Key: "host_id", Value: 1},
				{Key: "start", Value: 1},
				{Key: "ticket_number", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_slot_ticket"),
		},
		{
			Keys:    bson.D{{Key: "reservation_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_reservation"),
		},
	}
	if _, err := r.queueColl.Indexes().CreateMany(ctx, queueIndexes); err != nil {
		return fmt.Errorf("failed to create queue entry indexes: %w", err)
	}

	lockIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(60).SetName("lock_ttl"),
		},
	}
	if _, err := r.lockColl.Indexes().CreateMany(ctx, lockIndexes); err != nil {
		return fmt.Errorf("failed to create slot lock indexes: %w", err)
	}
	return nil
}
