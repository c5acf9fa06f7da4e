package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaPublisherEmit(t *testing.T) {
	otel.SetTracerProvider(sdktrace.NewTracerProvider())
	otel.SetTextMapPropagator(propagation.TraceContext{})

	w := &fakeWriter{}
	p := NewKafkaPublisher(w, "linkly.clicks", time.Second)
	p.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	p.newID = func() string { return "evt-1" }

	click := trigger.ClickEvent{ID: "42-t", LinkID: int64(42), Timestamp: "t", Country: "US"}
	require.NoError(t, p.Emit(context.Background(), "ws-node", click))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "ws-node", string(msg.Key))
	assert.JSONEq(t, `{
		"eventId": "evt-1",
		"nodeId": "ws-node",
		"receivedAt": "2024-01-01T12:00:00Z",
		"click": {"id": "42-t", "link_id": 42, "timestamp": "t", "country": "US"}
	}`, string(msg.Value))

	ctx := ContextFromKafkaHeaders(context.Background(), msg.Headers)
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid(), "traceparent header should restore a span context")
}

func TestKafkaPublisherWriteError(t *testing.T) {
	p := NewKafkaPublisher(&fakeWriter{err: errors.New("no brokers")}, "t", 0)

	err := p.Emit(context.Background(), "n", trigger.ClickEvent{ID: "-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers")
}

func TestClickReceivedRoundTrip(t *testing.T) {
	raw := []byte(`{"eventId":"e","nodeId":"n","receivedAt":"2024-01-01T00:00:00Z","click":{"id":"1-t","link_id":1}}`)
	var ev ClickReceived
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, "1-t", ev.Click.ID)
	assert.Nil(t, ev.Click.Country)
}

func TestCarrierToKafkaHeadersSkipsEmpty(t *testing.T) {
	headers := CarrierToKafkaHeaders(propagation.MapCarrier{"traceparent": "00-abc", "tracestate": " "})
	require.Len(t, headers, 1)
	assert.Equal(t, "traceparent", headers[0].Key)
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Emit(context.Background(), "ws-node", trigger.ClickEvent{ID: "1-t"}))

	entries := logs.FilterMessage("click received").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ws-node", entries[0].ContextMap()["node"])
}
