package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MessageWriter is the part of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits clicks as ClickReceived messages keyed by node id.
type KafkaPublisher struct {
	writer       MessageWriter
	topic        string
	writeTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

// NewKafkaWriter builds the writer used in production.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPublisher(writer MessageWriter, topic string, writeTimeout time.Duration) *KafkaPublisher {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &KafkaPublisher{
		writer:       writer,
		topic:        topic,
		writeTimeout: writeTimeout,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

func (p *KafkaPublisher) Emit(ctx context.Context, nodeID string, click trigger.ClickEvent) error {
	receivedAt := p.now().UTC()
	event := ClickReceived{
		EventID:    p.newID(),
		NodeID:     nodeID,
		ReceivedAt: receivedAt.Format(time.RFC3339Nano),
		Click:      click,
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal click event: %w", err)
	}

	producerCtx, span := otel.Tracer("linkly-connector/events").Start(
		ctx,
		"kafka.publish.click_received",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", p.topic),
			attribute.String("messaging.operation", "publish"),
			attribute.String("messaging.message.id", event.EventID),
			attribute.String("messaging.kafka.message_key", nodeID),
		),
	)
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(producerCtx, carrier)

	writeCtx, cancel := context.WithTimeout(producerCtx, p.writeTimeout)
	defer cancel()

	err = p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:     []byte(nodeID),
		Value:   value,
		Time:    receivedAt,
		Headers: CarrierToKafkaHeaders(carrier),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "kafka publish failed")
		return fmt.Errorf("publish click event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
