// Package publisher emits persisted notifications onto the event bus so
// out-of-process consumers (mailers, push gateways) can deliver them.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"placement/internal/notification/models"
	"placement/pkg/platform/circuit"
)

// Producer is the subset of *kgo.Client used here.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Kafka publishes one record per notification, keyed by recipient so a
// recipient's events stay ordered within a partition.
type Kafka struct {
	producer Producer
	topic    string
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewKafka(producer Producer, topic string, breaker *circuit.Breaker, logger *slog.Logger) *Kafka {
	if breaker == nil {
		breaker = circuit.New("notification-events")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{producer: producer, topic: topic, breaker: breaker, logger: logger}
}

type event struct {
	ID               string            `json:"id"`
	RecipientID      string            `json:"recipientId"`
	RecipientType    string            `json:"recipientType"`
	Type             string            `json:"type"`
	Title            string            `json:"title"`
	Message          string            `json:"message"`
	AffectedItemID   string            `json:"affectedItemId,omitempty"`
	AffectedItemType string            `json:"affectedItemType,omitempty"`
	Priority         string            `json:"priority"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	CreatedAt        string            `json:"createdAt"`
}

// Publish sends the batch. While the breaker is open the batch is dropped.
func (k *Kafka) Publish(ctx context.Context, ns ...*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	if !k.breaker.Allow() {
		return fmt.Errorf("notification publisher %s: circuit open", k.breaker.Name())
	}

	records := make([]*kgo.Record, 0, len(ns))
	for _, n := range ns {
		value, err := json.Marshal(event{
			ID:               n.ID.String(),
			RecipientID:      n.RecipientID,
			RecipientType:    string(n.RecipientType),
			Type:             string(n.Type),
			Title:            n.Title,
			Message:          n.Message,
			AffectedItemID:   n.AffectedItemID,
			AffectedItemType: n.AffectedItemType,
			Priority:         string(n.Priority),
			Metadata:         n.Metadata,
			CreatedAt:        n.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		})
		if err != nil {
			return fmt.Errorf("marshal notification event: %w", err)
		}
		records = append(records, &kgo.Record{
			Topic: k.topic,
			Key:   []byte(n.RecipientID),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "type", Value: []byte(n.Type)},
			},
		})
	}

	if err := k.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		if _, change := k.breaker.RecordFailure(); change.Opened {
			k.logger.WarnContext(ctx, "notification publisher circuit opened", "error", err)
		}
		return fmt.Errorf("produce notification events: %w", err)
	}
	if _, change := k.breaker.RecordSuccess(); change.Closed {
		k.logger.InfoContext(ctx, "notification publisher circuit closed")
	}
	return nil
}

// Noop discards events when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, ...*models.Notification) error { return nil }
