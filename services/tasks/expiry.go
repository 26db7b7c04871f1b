package tasks

import (
	"encoding/json"
	"time"

	"roomify/config"

	"github.com/hibiken/asynq"
)

const TypeReservationExpire = "reservation:expire"

// ExpiryPayload identifies the reservation whose deposit deadline is due.
type ExpiryPayload struct {
	ReservationID string `json:"reservation_id"`
}

// NewExpiryTask builds the auto-cancel task scheduled for the deposit
// deadline.
func NewExpiryTask(reservationID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ExpiryPayload{ReservationID: reservationID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeReservationExpire, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// Scheduler enqueues expiry tasks on the asynq queue.
type Scheduler struct {
	client *asynq.Client
}

// NewScheduler builds a Scheduler backed by the configured redis task DB.
func NewScheduler() *Scheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	return &Scheduler{client: client}
}

// ScheduleExpiry enqueues the reservation expiry task for the deadline.
func (s *Scheduler) ScheduleExpiry(reservationID string, at time.Time) error {
	task, opts, err := NewExpiryTask(reservationID, at)
	if err != nil {
		return err
	}
	_, err = s.client.Enqueue(task, opts...)
	return err
}

// Close releases the underlying asynq client.
func (s *Scheduler) Close() error {
	return s.client.Close()
}
