package pricingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomify/database"
	"roomify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no tier matches the query.
var ErrNotFound = errors.New("pricing tier not found")

// MongoPricingRepo implements PricingRepository using MongoDB.
type MongoPricingRepo struct {
	tierColl     *mongo.Collection
	overrideColl *mongo.Collection
}

// NewMongoPricingRepo constructs a new instance of MongoPricingRepo.
func NewMongoPricingRepo() *MongoPricingRepo {
	db := database.DB()
	return &MongoPricingRepo{
		tierColl:     db.Collection("pricing_tiers"),
		overrideColl: db.Collection("price_overrides"),
	}
}

func (r *MongoPricingRepo) CreateTier(ctx context.Context, tier *models.PricingTier) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tier.CreatedAt = time.Now().UTC()
	if _, err := r.tierColl.InsertOne(ctx, tier); err != nil {
		return fmt.Errorf("failed to insert pricing tier: %w", err)
	}
	return nil
}

func (r *MongoPricingRepo) GetTier(ctx context.Context, tierID string) (*models.PricingTier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tier models.PricingTier
	if err := r.tierColl.FindOne(ctx, bson.M{"id": tierID}).Decode(&tier); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching pricing tier %s: %w", tierID, err)
	}
	return &tier, nil
}

func (r *MongoPricingRepo) GetTiersByListing(ctx context.Context, listingID string) ([]models.PricingTier, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.tierColl.Find(ctx, bson.M{"listing_id": listingID})
	if err != nil {
		return nil, fmt.Errorf("error fetching tiers for listing %s: %w", listingID, err)
	}
	defer cursor.Close(ctx)

	var tiers []models.PricingTier
	if err := cursor.All(ctx, &tiers); err != nil {
		return nil, fmt.Errorf("error decoding pricing tiers: %w", err)
	}
	return tiers, nil
}

func (r *MongoPricingRepo) DeleteTier(ctx context.Context, listingID, tierID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.tierColl.DeleteOne(ctx, bson.M{"id": tierID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete pricing tier %s: %w", tierID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	// Overrides are meaningless without their tier.
	if _, err := r.overrideColl.DeleteMany(ctx, bson.M{"tier_id": tierID}); err != nil {
		return fmt.Errorf("failed to delete overrides for tier %s: %w", tierID, err)
	}
	return nil
}

func (r *MongoPricingRepo) ClearDefault(ctx context.Context, listingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"listing_id": listingID, "default": true}
	if _, err := r.tierColl.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"default": false}}); err != nil {
		return fmt.Errorf("failed to clear default tier for listing %s: %w", listingID, err)
	}
	return nil
}

func (r *MongoPricingRepo) SetOverride(ctx context.Context, override *models.PriceOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tier_id": override.TierID, "date": override.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.overrideColl.ReplaceOne(ctx, filter, override, opts); err != nil {
		return fmt.Errorf("failed to upsert price override: %w", err)
	}
	return nil
}

func (r *MongoPricingRepo) DeleteOverride(ctx context.Context, tierID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.overrideColl.DeleteOne(ctx, bson.M{"tier_id": tierID, "date": date}); err != nil {
		return fmt.Errorf("failed to delete price override: %w", err)
	}
	return nil
}

func (r *MongoPricingRepo) GetOverrides(ctx context.Context, tierID string, dates []string) (map[string]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(dates) == 0 {
		return map[string]float64{}, nil
	}

	filter := bson.M{"tier_id": tierID, "date": bson.M{"$in": dates}}
	cursor, err := r.overrideColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching price overrides for tier %s: %w", tierID, err)
	}
	defer cursor.Close(ctx)

	overrides := make(map[string]float64)
	for cursor.Next(ctx) {
		var o models.PriceOverride
		if err := cursor.Decode(&o); err != nil {
			return nil, fmt.Errorf("error decoding price override: %w", err)
		}
		overrides[o.Date] = o.Price
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price overrides: %w", err)
	}
	return overrides, nil
}
