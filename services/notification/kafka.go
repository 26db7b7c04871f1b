package notification

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"roomify/models"
	"roomify/utils"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// reservationEvent is the wire shape of a lifecycle event.
type reservationEvent struct {
	Event         string    `json:"event"`
	ReservationID string    `json:"reservation_id"`
	ListingID     string    `json:"listing_id"`
	GuestID       string    `json:"guest_id"`
	Status        string    `json:"status"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// KafkaPublisher publishes reservation events to a kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher builds a publisher for the given brokers and topic.
// Brokers is a comma-separated list; empty yields a NopPublisher.
func NewKafkaPublisher(brokers, topic string) Publisher {
	if strings.TrimSpace(brokers) == "" {
		return NopPublisher{}
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event string, res *models.Reservation) error {
	payload, err := json.Marshal(reservationEvent{
		Event:         event,
		ReservationID: res.ID,
		ListingID:     res.ListingID,
		GuestID:       res.GuestID,
		Status:        string(res.Status),
		TotalPrice:    res.TotalPrice,
		Currency:      res.Currency,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		// Key by listing so per-listing event order is preserved.
		Key:   []byte(res.ListingID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		utils.GetLogger().Warn("kafka publish failed",
			zap.String("event", event), zap.Error(err))
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
