package paymentRepo

import (
	"context"
	"fmt"
	"time"

	"roomify/database"
	"roomify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	paymentColl *mongo.Collection
}

// NewMongoPaymentRepo constructs a new instance of MongoPaymentRepo.
func NewMongoPaymentRepo() *MongoPaymentRepo {
	db := database.DB()
	return &MongoPaymentRepo{
		paymentColl: db.Collection("payment_records"),
	}
}

func (r *MongoPaymentRepo) Create(ctx context.Context, record *models.PaymentRecord) error {
	record.CreatedAt = time.Now().UTC()
	if _, err := r.paymentColl.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert payment record: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) ListByReservation(ctx context.Context, reservationID string) ([]models.PaymentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.paymentColl.Find(ctx, bson.M{"reservation_id": reservationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching payment records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.PaymentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding payment records: %w", err)
	}
	return records, nil
}

func (r *MongoPaymentRepo) SumSettled(ctx context.Context, reservationID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"reservation_id": reservationID, "status": "settled"}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}
	cursor, err := r.paymentColl.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("error summing settled payments: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("error decoding payment sum: %w", err)
		}
	}
	return result.Total, nil
}

// EnsureIndexes creates the necessary indexes on the payment records
// collection.
func (r *MongoPaymentRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "reservation_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("reservation_idx"),
		},
	}
	if _, err := r.paymentColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create payment record indexes: %w", err)
	}
	return nil
}
