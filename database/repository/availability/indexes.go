package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the ledger collections.
func (r *MongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "start", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("listing_window_idx"),
		},
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "primary_date", Value: 1}},
			Options: options.Index().SetName("listing_primary_date_idx"),
		},
	}

	if _, err := r.blockedColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create blocked interval indexes: %w", err)
	}
	if _, err := r.intervalColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability interval indexes: %w", err)
	}
	return nil
}
