// Package notify publishes email jobs for the mail workers to deliver.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/okpuja-payments/internal/application"
	"github.com/IBM/sarama"
)

const (
	EventBookingConfirmed          = "booking.confirmed"
	EventAstrologyBookingConfirmed = "astrology_booking.confirmed"
	EventAstrologyAdminAlert       = "astrology_booking.admin_alert"
)

// Envelope is the message body on the notification topic.
type Envelope struct {
	EventType  string    `json:"event_type"`
	Recipient  string    `json:"recipient"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

var _ application.Notifier = (*KafkaNotifier)(nil)

func NewKafkaNotifier(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic, logger: logger}
}

// InitProducer builds a synchronous producer that waits for all in-sync replicas.
func InitProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

func (n *KafkaNotifier) BookingConfirmed(ctx context.Context, b application.BookingNotification) error {
	return n.publish(ctx, b.BookID, Envelope{
		EventType: EventBookingConfirmed,
		Recipient: b.Email,
		Data:      b,
	})
}

func (n *KafkaNotifier) AstrologyBookingConfirmed(ctx context.Context, a application.AstrologyNotification) error {
	return n.publish(ctx, a.AstroBookID, Envelope{
		EventType: EventAstrologyBookingConfirmed,
		Recipient: a.ContactEmail,
		Data:      a,
	})
}

func (n *KafkaNotifier) AstrologyAdminAlert(ctx context.Context, a application.AstrologyNotification) error {
	return n.publish(ctx, a.AstroBookID, Envelope{
		EventType: EventAstrologyAdminAlert,
		Recipient: a.AdminEmail,
		Data:      a,
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, key string, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env.OccurredAt = time.Now().UTC()

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(env.EventType)},
		},
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.logger.Info("notification published",
		"topic", n.topic,
		"event_type", env.EventType,
		"key", key,
		"partition", partition,
		"offset", offset,
	)
	return nil
}
