package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys attached to every published message.
const (
	HeaderEventID       = "event-id"
	HeaderEventType     = "event-type"
	HeaderCorrelationID = "correlation-id"
	HeaderContentType   = "content-type"
	HeaderProducedAt    = "produced-at"
	HeaderRetryCount    = "retry-count"
	HeaderOriginalTopic = "original-topic"
	HeaderFailureReason = "failure-reason"
)

// MessageBuilder assembles a kafka message with the standard header set.
type MessageBuilder struct {
	key           []byte
	value         []byte
	eventType     string
	correlationID string
	err           error
}

func NewMessage() *MessageBuilder {
	return &MessageBuilder{}
}

// WithKey sets the partition key. Use an entity id so related events
// stay ordered within a partition.
func (b *MessageBuilder) WithKey(key string) *MessageBuilder {
	b.key = []byte(key)
	return b
}

// WithJSONValue marshals payload as the message body.
func (b *MessageBuilder) WithJSONValue(payload any) *MessageBuilder {
	data, err := json.Marshal(payload)
	if err != nil {
		b.err = fmt.Errorf("marshaling message payload: %w", err)
		return b
	}
	b.value = data
	return b
}

func (b *MessageBuilder) WithEventType(eventType string) *MessageBuilder {
	b.eventType = eventType
	return b
}

func (b *MessageBuilder) WithCorrelationID(id string) *MessageBuilder {
	b.correlationID = id
	return b
}

// Build finalizes the message. The event id is generated here so each
// build produces a distinct, traceable event.
func (b *MessageBuilder) Build() (kafkago.Message, error) {
	if b.err != nil {
		return kafkago.Message{}, b.err
	}
	if len(b.value) == 0 {
		return kafkago.Message{}, fmt.Errorf("message value is required")
	}
	if b.eventType == "" {
		return kafkago.Message{}, fmt.Errorf("event type is required")
	}

	correlationID := b.correlationID
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	headers := []kafkago.Header{
		{Key: HeaderEventID, Value: []byte(uuid.NewString())},
		{Key: HeaderEventType, Value: []byte(b.eventType)},
		{Key: HeaderCorrelationID, Value: []byte(correlationID)},
		{Key: HeaderContentType, Value: []byte("application/json")},
		{Key: HeaderProducedAt, Value: []byte(time.Now().UTC().Format(time.RFC3339))},
	}

	return kafkago.Message{
		Key:     b.key,
		Value:   b.value,
		Headers: headers,
	}, nil
}

// HeaderValue returns the value for key among msg headers, or "".
func HeaderValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
