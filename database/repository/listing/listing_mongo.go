package listingRepo

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

// ErrNotFound is returned when no listing or policy matches the query.
var ErrNotFound = errors.New("listing not found")

// MongoListingRepo implements ListingRepository and PolicyRepository using MongoDB.
type MongoListingRepo struct {
	listingColl *mongo.Collection
	policyColl  *mongo.Collection
}

// NewMongoListingRepo constructs a new instance of MongoListingRepo.
func NewMongoListingRepo() *MongoListingRepo {
	db := database.DB()
	return &MongoListingRepo{
		listingColl: db.Collection("listings"),
		policyColl:  db.Collection("cancellation_policies"),
	}
}

func (r *MongoListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	listing.CreatedAt = now
	listing.UpdatedAt = now
	if _, err := r.listingColl.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *MongoListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var listing models.Listing
	if err := r.listingColl.FindOne(ctx, bson.M{"id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching listing %s: %w", id, err)
	}
	return &listing, nil
}

func (r *MongoListingRepo) Update(ctx context.Context, listing *models.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	listing.UpdatedAt = time.Now().UTC()
	res, err := r.listingColl.ReplaceOne(ctx, bson.M{"id": listing.ID}, listing)
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", listing.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoListingRepo) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC()}}
	res, err := r.listingColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set active flag on listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoListingRepo) GetPolicyByName(ctx context.Context, name string) (*models.CancellationPolicy, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var policy models.CancellationPolicy
	if err := r.policyColl.FindOne(ctx, bson.M{"name": name}).Decode(&policy); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching cancellation policy %q: %w", name, err)
	}
	return &policy, nil
}

func (r *MongoListingRepo) UpsertPolicy(ctx context.Context, policy *models.CancellationPolicy) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.policyColl.ReplaceOne(ctx, bson.M{"name": policy.Name}, policy, opts); err != nil {
		return fmt.Errorf("failed to upsert cancellation policy %q: %w", policy.Name, err)
	}
	return nil
}
