package carrier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"shiptrack/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Event names published to the shipment events topic.
const (
	EventCreated       = "shipment.created"
	EventStatusChanged = "shipment.status_changed"
	EventCanceled      = "shipment.canceled"
)

// shipmentEvent is the wire format for carrier events.
type shipmentEvent struct {
	Event        string    `json:"event"`
	ShipmentID   int64     `json:"shipmentId"`
	TrackingCode string    `json:"trackingCode,omitempty"`
	Status       string    `json:"status,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// kafkaGateway publishes carrier notifications as Kafka events keyed by
// shipment ID so per-shipment ordering is preserved within a partition.
type kafkaGateway struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// NewKafkaGateway creates a gateway backed by a Kafka topic.
func NewKafkaGateway(brokers []string, topic string, logger zerolog.Logger) Gateway {
	return &kafkaGateway{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
		logger: logger.With().Str("gateway", "kafka").Logger(),
	}
}

func (g *kafkaGateway) publish(ctx context.Context, event shipmentEvent) error {
	event.OccurredAt = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal carrier event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.ShipmentID, 10)),
		Value: data,
	}

	if err := g.writer.WriteMessages(ctx, msg); err != nil {
		g.logger.Error().Err(err).
			Str("event", event.Event).
			Int64("shipment_id", event.ShipmentID).
			Msg("failed to publish carrier event")
		return fmt.Errorf("failed to publish carrier event: %w", err)
	}

	g.logger.Debug().
		Str("event", event.Event).
		Int64("shipment_id", event.ShipmentID).
		Msg("carrier event published")

	return nil
}

func (g *kafkaGateway) NotifyCreated(ctx context.Context, shipmentID int64, trackingCode string) error {
	return g.publish(ctx, shipmentEvent{
		Event:        EventCreated,
		ShipmentID:   shipmentID,
		TrackingCode: trackingCode,
	})
}

func (g *kafkaGateway) NotifyStatusChanged(ctx context.Context, shipmentID int64, status model.ShipmentStatus) error {
	return g.publish(ctx, shipmentEvent{
		Event:      EventStatusChanged,
		ShipmentID: shipmentID,
		Status:     string(status),
	})
}

func (g *kafkaGateway) NotifyCanceled(ctx context.Context, shipmentID int64) error {
	return g.publish(ctx, shipmentEvent{
		Event:      EventCanceled,
		ShipmentID: shipmentID,
	})
}

// Close flushes and closes the underlying Kafka writer.
func (g *kafkaGateway) Close() error {
	return g.writer.Close()
}
