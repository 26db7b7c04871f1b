package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"roomify/config"
	"roomify/services/reservation"
	"roomify/services/tasks"

	"github.com/hibiken/asynq"
)

// InitExpiryWorker runs the deposit-deadline worker in the background. Each
// reservation enqueues its own expiry task at creation; the handler cancels
// it if the deposit is still outstanding when the deadline fires.
func InitExpiryWorker(engine *reservation.Engine) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReservationExpire, handleExpiryTask(engine))

	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleExpiryTask(engine *reservation.Engine) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ExpiryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return err
		}
		return engine.ExpireIfUnpaid(ctx, p.ReservationID)
	}
}
