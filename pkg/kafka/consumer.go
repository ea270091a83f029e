package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"lodgera/pkg/logger"
)

// MessageHandler processes a single fetched message. A non-nil error
// triggers a retry; after max retries the message goes to the DLQ.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// Consumer runs a fetch-process-commit loop over a consumer group.
type Consumer struct {
	reader     *kafkago.Reader
	dlq        *Producer
	maxRetries int
	log        *logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewConsumer joins groupID on topic. dlq may be nil, in which case
// exhausted messages are committed and dropped with an error log.
func NewConsumer(cfg *Config, topic, groupID string, dlq *Producer, log *logger.Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid kafka config: %w", err)
	}
	if topic == "" || groupID == "" {
		return nil, fmt.Errorf("topic and group id are required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       cfg.ConsumerMinBytes,
		MaxBytes:       cfg.ConsumerMaxBytes,
		MaxWait:        cfg.ConsumerMaxWait,
		CommitInterval: cfg.ConsumerCommitInterval,
	})

	return &Consumer{
		reader:     reader,
		dlq:        dlq,
		maxRetries: cfg.ConsumerMaxRetries,
		log:        log,
	}, nil
}

// Run blocks fetching messages until ctx is cancelled or Close is
// called. Each message is committed exactly once, after the handler
// succeeds or the message is forwarded to the DLQ.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return ErrConsumerClosed
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		c.process(ctx, msg, handler)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("committing offset: %w", err)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafkago.Message, handler MessageHandler) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff(attempt)):
			}
		}

		if lastErr = handler(ctx, msg); lastErr == nil {
			return
		}

		c.log.Warn("message handler failed",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"attempt", attempt+1,
			"error", lastErr,
		)
	}

	if c.dlq != nil {
		if err := c.dlq.ForwardToDLQ(ctx, msg, lastErr.Error()); err != nil {
			c.log.Error("forwarding message to DLQ failed",
				"topic", msg.Topic,
				"offset", msg.Offset,
				"error", err,
			)
		}
		return
	}

	c.log.Error("dropping message after retries, no DLQ configured",
		"topic", msg.Topic,
		"offset", msg.Offset,
		"error", lastErr,
	)
}

func backoff(attempt int) time.Duration {
	d := time.Duration(attempt) * 500 * time.Millisecond
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.reader.Close()
}
