package kafka

import "errors"

var (
	// ErrProducerClosed is returned by Publish after Close.
	ErrProducerClosed = errors.New("kafka: producer is closed")

	// ErrConsumerClosed is returned when the consume loop exits after Close.
	ErrConsumerClosed = errors.New("kafka: consumer is closed")
)
