package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roomify/database"
	"roomify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no reservation matches the query.
var ErrNotFound = errors.New("reservation not found")

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	reservationColl *mongo.Collection
	queueColl       *mongo.Collection
	counterColl     *mongo.Collection
	lockColl        *mongo.Collection
}

// NewMongoReservationRepo constructs a new instance of MongoReservationRepo.
func NewMongoReservationRepo() *MongoReservationRepo {
	db := database.DB()
	return &MongoReservationRepo{
		reservationColl: db.Collection("reservations"),
		queueColl:       db.Collection("queue_entries"),
		counterColl:     db.Collection("ticket_counters"),
		lockColl:        db.Collection("slot_locks"),
	}
}

func (r *MongoReservationRepo) Create(ctx context.Context, reservation *models.Reservation) error {
	now := time.Now().UTC()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	if _, err := r.reservationColl.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := r.reservationColl.FindOne(ctx, bson.M{"id": id}).Decode(&reservation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching reservation %s: %w", id, err)
	}
	return &reservation, nil
}

func (r *MongoReservationRepo) FindOverlapping(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error) {
	// Half-open overlap: a.start < b.end AND a.end > b.start. Only pending
	// and confirmed reservations occupy the calendar.
	filter := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": []models.ReservationStatus{models.ReservationPending, models.ReservationConfirmed}},
		"start":      bson.M{"$lt": end},
		"end":        bson.M{"$gt": start},
	}
	cursor, err := r.reservationColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching overlapping reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return reservations, nil
}

func (r *MongoReservationRepo) FindInRange(ctx context.Context, listingID string, start, end time.Time) ([]models.Reservation, error) {
	return r.FindOverlapping(ctx, listingID, start, end)
}

func (r *MongoReservationRepo) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := r.reservationColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoReservationRepo) ApplyPayment(ctx context.Context, id string, amount float64, state models.PaymentState) error {
	update := bson.M{
		"$inc": bson.M{"amount_paid": amount},
		"$set": bson.M{"payment_state": state, "updated_at": time.Now().UTC()},
	}
	res, err := r.reservationColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to apply payment to reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoReservationRepo) SetPaymentState(ctx context.Context, id string, state models.PaymentState) error {
	update := bson.M{"$set": bson.M{"payment_state": state, "updated_at": time.Now().UTC()}}
	res, err := r.reservationColl.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment state on reservation %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoReservationRepo) CreateQueueEntry(ctx context.Context, entry *models.QueueEntry) error {
	entry.CreatedAt = time.Now().UTC()
	if _, err := r.queueColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert queue entry: %w", err)
	}
	return nil
}

func (r *MongoReservationRepo) UpdateQueueStatus(ctx context.Context, reservationID string, status models.QueueStatus) error {
	update := bson.M{"$set": bson.M{"status": status}}
	res, err := r.queueColl.UpdateOne(ctx, bson.M{"reservation_id": reservationID}, update)
	if err != nil {
		return fmt.Errorf("failed to update queue status for reservation %s: %w", reservationID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
