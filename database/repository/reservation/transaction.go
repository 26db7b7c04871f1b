package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"roomify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ticketCounter is the per-(listing, host, start) sequence document. Its
// _id is the slot-queue key, so FindOneAndUpdate with $inc is the single
// serialization point for ticket assignment: two racing writers are ordered
// by the storage engine and observe distinct sequence values.
type ticketCounter struct {
	Key string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// SlotQueueKey builds the slot-queue key for ticket counters.
func SlotQueueKey(listingID, hostID string, start time.Time) string {
	return fmt.Sprintf("%s|%s|%s", listingID, hostID, start.UTC().Format(time.RFC3339))
}

// SlotLockKey builds the advisory lock key for a listing calendar date.
func SlotLockKey(listingID, primaryDate string) string {
	return fmt.Sprintf("%s|%s", listingID, primaryDate)
}

func (r *MongoReservationRepo) NextTicketNumber(ctx context.Context, listingID, hostID string, start time.Time) (int, error) {
	key := SlotQueueKey(listingID, hostID, start)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter ticketCounter
	err := r.counterColl.FindOneAndUpdate(
		ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to advance ticket counter for %s: %w", key, err)
	}
	return counter.Seq, nil
}

// ExecuteTransaction runs fn inside a mongo multi-document transaction.
// Any error from fn aborts the transaction so no partial reservation or
// orphaned ticket survives. The driver's WithTransaction retries the body
// on TransientTransactionError, which concurrent $inc updates on the same
// ticket counter document raise when one writer's transaction aborts; fn
// must therefore be safe to re-run.
func (r *MongoReservationRepo) ExecuteTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// AcquireSlotLock inserts the advisory lock document for key. The unique
// _id makes the insert fail with a duplicate-key error while another writer
// holds the lock.
func (r *MongoReservationRepo) AcquireSlotLock(ctx context.Context, key string) error {
	lock := models.SlotLock{Key: key, CreatedAt: time.Now().UTC()}
	if _, err := r.lockColl.InsertOne(ctx, lock); err != nil {
		return err
	}
	return nil
}

// ReleaseSlotLock removes the advisory lock document.
func (r *MongoReservationRepo) ReleaseSlotLock(ctx context.Context, key string) error {
	if _, err := r.lockColl.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("failed to release slot lock %s: %w", key, err)
	}
	return nil
}
