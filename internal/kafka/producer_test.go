package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

// scriptedWriter fails the first N writes, then accepts the rest.
type scriptedWriter struct {
	failures int
	written  []kafka.Message
}

func (w *scriptedWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.failures > 0 {
		w.failures--
		return errors.New("broker unavailable")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *scriptedWriter) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	writer := &scriptedWriter{}
	producer := &Producer{writer: writer}

	event := FareEvent{FlightID: 4, Price: 8750, Reason: "demo", RecordedAt: time.Now()}
	err := producer.Publish(context.Background(), "fare_events", "AB101", event)

	assert.NoError(t, err)
	assert.Len(t, writer.written, 1)
	assert.Equal(t, "fare_events", writer.written[0].Topic)
	assert.Equal(t, []byte("AB101"), writer.written[0].Key)

	var decoded FareEvent
	assert.NoError(t, json.Unmarshal(writer.written[0].Value, &decoded))
	assert.Equal(t, event.FlightID, decoded.FlightID)
	assert.Equal(t, event.Price, decoded.Price)
}

func TestProducer_PublishWithRetryRecovers(t *testing.T) {
	writer := &scriptedWriter{failures: 1}
	producer := &Producer{writer: writer}

	err := producer.PublishWithRetry(context.Background(), "fare_events", "AB101", FareEvent{FlightID: 4}, 3)

	assert.NoError(t, err)
	assert.Len(t, writer.written, 1)
}

func TestProducer_PublishWithRetryExhausted(t *testing.T) {
	writer := &scriptedWriter{failures: 2}
	producer := &Producer{writer: writer}

	err := producer.PublishWithRetry(context.Background(), "fare_events", "AB101", FareEvent{FlightID: 4}, 2)

	assert.ErrorContains(t, err, "failed after 2 retries")
	assert.Empty(t, writer.written)
}
