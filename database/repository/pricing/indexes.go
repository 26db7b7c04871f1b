package pricingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the pricing collections.
// The partial unique index on (listing_id, default) enforces "at most one
// default tier per listing"; the unique (tier_id, date) index enforces "at
// most one override per (tier, date)".
func (r *MongoPricingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tierIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}},
			Options: options.Index().SetName("listing_idx"),
		},
		{
			Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "default", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"default": true}).
				SetName("unique_default_tier"),
		},
	}
	if _, err := r.tierColl.Indexes().CreateMany(ctx, tierIndexes); err != nil {
		return fmt.Errorf("failed to create tier indexes: %w", err)
	}

	overrideIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tier_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_tier_date"),
		},
		{
			Keys:    bson.D{{Key: "listing_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetName("listing_date_idx"),
		},
	}
	if _, err := r.overrideColl.Indexes().CreateMany(ctx, overrideIndexes); err != nil {
		return fmt.Errorf("failed to create override indexes: %w", err)
	}
	return nil
}
