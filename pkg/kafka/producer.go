package kafka

import (
	"context"
	"fmt"
	"sync"

	kafkago "github.com/segmentio/kafka-go"

	"lodgera/pkg/logger"
)

// PublishMiddleware wraps a publish call, e.g. for logging or metrics.
type PublishMiddleware func(next PublishFunc) PublishFunc

// PublishFunc performs the actual write of a message.
type PublishFunc func(ctx context.Context, msg kafkago.Message) error

// Producer writes messages to a single topic, with an optional dead
// letter topic for messages that exhaust delivery attempts downstream.
type Producer struct {
	writer    *kafkago.Writer
	dlqWriter *kafkago.Writer
	publish   PublishFunc
	log       *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewProducer builds a producer for topic. dlqTopic may be empty, in
// which case ForwardToDLQ returns an error.
func NewProducer(cfg *Config, topic, dlqTopic string, log *logger.Logger, mws ...PublishMiddleware) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}
	if topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	p := &Producer{
		writer: newWriter(cfg, topic),
		log:    log,
	}
	if dlqTopic != "" {
		p.dlqWriter = newWriter(cfg, dlqTopic)
	}

	p.publish = p.write
	for i := len(mws) - 1; i >= 0; i-- {
		p.publish = mws[i](p.publish)
	}
	return p, nil
}

func newWriter(cfg *Config, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		MaxAttempts:  cfg.ProducerMaxAttempts,
		BatchTimeout: cfg.ProducerBatchTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.ProducerRequireAcks),
	}
}

// Publish sends msg through the middleware chain to the main topic.
func (p *Producer) Publish(ctx context.Context, msg kafkago.Message) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrProducerClosed
	}
	p.mu.Unlock()

	return p.publish(ctx, msg)
}

func (p *Producer) write(ctx context.Context, msg kafkago.Message) error {
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("writing message to %s: %w", p.writer.Topic, err)
	}
	return nil
}

// ForwardToDLQ copies msg onto the dead letter topic, annotating it
// with the original topic and the failure reason.
func (p *Producer) ForwardToDLQ(ctx context.Context, msg kafkago.Message, reason string) error {
	if p.dlqWriter == nil {
		return fmt.Errorf("no dead letter topic configured for %s", p.writer.Topic)
	}

	dlqMsg := kafkago.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers,
			kafkago.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
			kafkago.Header{Key: HeaderFailureReason, Value: []byte(reason)},
		),
	}
	if err := p.dlqWriter.WriteMessages(ctx, dlqMsg); err != nil {
		return fmt.Errorf("writing message to DLQ %s: %w", p.dlqWriter.Topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
