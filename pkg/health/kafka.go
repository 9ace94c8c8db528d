package health

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// BrokerProbe checks Kafka broker connectivity.
type BrokerProbe struct {
	brokers []string
}

// NewBrokerProbe creates a new Kafka broker probe.
func NewBrokerProbe(brokers []string) *BrokerProbe {
	return &BrokerProbe{brokers: brokers}
}

// Run attempts to connect to any Kafka broker.
func (p *BrokerProbe) Run(ctx context.Context) Outcome {
	if len(p.brokers) == 0 {
		return Failed("no brokers configured")
	}

	var lastErr error
	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return Ok()
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if o := FromError(lastErr); o.Kind == KindTimedOut {
		return o
	}
	return Failed(fmt.Sprintf("all brokers unreachable: %v", lastErr))
}
