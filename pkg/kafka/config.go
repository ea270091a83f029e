package kafka

import (
	"fmt"
	"time"
)

// Config holds the broker settings shared by producers and consumers.
// Values come from the service config rather than a second env layer.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int // -1 = all, 0 = none, 1 = leader only

	ConsumerMinBytes       int
	ConsumerMaxBytes       int
	ConsumerMaxWait        time.Duration
	ConsumerCommitInterval time.Duration
	ConsumerMaxRetries     int
}

// NewConfig returns a config with production defaults for the given brokers.
func NewConfig(brokers []string) *Config {
	return &Config{
		Brokers: brokers,

		ProducerMaxAttempts:  3,
		ProducerBatchTimeout: 100 * time.Millisecond,
		ProducerRequireAcks:  -1,

		ConsumerMinBytes:       1,
		ConsumerMaxBytes:       10 * 1024 * 1024,
		ConsumerMaxWait:        500 * time.Millisecond,
		ConsumerCommitInterval: time.Second,
		ConsumerMaxRetries:     3,
	}
}

func (cfg *Config) Validate() error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("at least one Kafka broker is required")
	}
	if cfg.ProducerMaxAttempts < 1 {
		return fmt.Errorf("ProducerMaxAttempts must be at least 1")
	}
	if cfg.ConsumerMaxRetries < 0 {
		return fmt.Errorf("ConsumerMaxRetries cannot be negative")
	}
	return nil
}
