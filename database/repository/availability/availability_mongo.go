package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"roomify/database"
	"roomify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	blockedColl  *mongo.Collection
	intervalColl *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new instance of MongoAvailabilityRepo.
func NewMongoAvailabilityRepo() *MongoAvailabilityRepo {
	db := database.DB()
	return &MongoAvailabilityRepo{
		blockedColl:  db.Collection("blocked_intervals"),
		intervalColl: db.Collection("availability_intervals"),
	}
}

func (r *MongoAvailabilityRepo) CreateBlock(ctx context.Context, block *models.BlockedInterval) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	block.CreatedAt = time.Now().UTC()
	if _, err := r.blockedColl.InsertOne(ctx, block); err != nil {
		return fmt.Errorf("failed to insert blocked interval: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) DeleteBlock(ctx context.Context, listingID, blockID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.blockedColl.DeleteOne(ctx, bson.M{"id": blockID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete blocked interval %s: %w", blockID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoAvailabilityRepo) GetBlocksOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.BlockedInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Half-open overlap: block.start < end AND block.end > start.
	filter := bson.M{
		"listing_id": listingID,
		"start":      bson.M{"$lt": end},
		"end":        bson.M{"$gt": start},
	}
	cursor, err := r.blockedColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching blocked intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.BlockedInterval
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding blocked intervals: %w", err)
	}
	return blocks, nil
}

func (r *MongoAvailabilityRepo) GetBlocksByPrimaryDate(ctx context.Context, listingID, date string) ([]models.BlockedInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"listing_id": listingID, "primary_date": date}
	cursor, err := r.blockedColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching blocked intervals by date: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []models.BlockedInterval
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("error decoding blocked intervals: %w", err)
	}
	return blocks, nil
}

func (r *MongoAvailabilityRepo) CreateInterval(ctx context.Context, interval *models.AvailabilityInterval) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	interval.CreatedAt = time.Now().UTC()
	if _, err := r.intervalColl.InsertOne(ctx, interval); err != nil {
		return fmt.Errorf("failed to insert availability interval: %w", err)
	}
	return nil
}

func (r *MongoAvailabilityRepo) DeleteInterval(ctx context.Context, listingID, intervalID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.intervalColl.DeleteOne(ctx, bson.M{"id": intervalID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete availability interval %s: %w", intervalID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoAvailabilityRepo) GetIntervalsOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.AvailabilityInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"available":  true,
		"start":      bson.M{"$lt": end},
		"end":        bson.M{"$gt": start},
	}
	cursor, err := r.intervalColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching availability intervals: %w", err)
	}
	defer cursor.Close(ctx)

	var intervals []models.AvailabilityInterval
	if err := cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("error decoding availability intervals: %w", err)
	}
	return intervals, nil
}

func (r *MongoAvailabilityRepo) GetIntervalsByPrimaryDate(ctx context.Context, listingID, date string) ([]models.AvailabilityInterval, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"listing_id": listingID, "available": true, "primary_date": date}
	cursor, err := r.intervalColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching availability intervals by date: %w", err)
	}
	defer cursor.Close(ctx)

	var intervals []models.AvailabilityInterval
	if err := cursor.All(ctx, &intervals); err != nil {
		return nil, fmt.Errorf("error decoding availability intervals: %w", err)
	}
	return intervals, nil
}
