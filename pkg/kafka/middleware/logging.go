package middleware

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"lodgera/pkg/kafka"
	"lodgera/pkg/logger"
)

// PublishLogging logs every publish attempt with its outcome and latency.
func PublishLogging(log *logger.Logger) kafka.PublishMiddleware {
	return func(next kafka.PublishFunc) kafka.PublishFunc {
		return func(ctx context.Context, msg kafkago.Message) error {
			start := time.Now()
			err := next(ctx, msg)
			fields := []any{
				"event_type", kafka.HeaderValue(msg, kafka.HeaderEventType),
				"event_id", kafka.HeaderValue(msg, kafka.HeaderEventID),
				"key", string(msg.Key),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				log.Error("event publish failed", append(fields, "error", err)...)
				return err
			}
			log.Info("event published", fields...)
			return nil
		}
	}
}
