package sweeper

import (
	"context"
	"time"

	"gelfgate/internal/receiver/pending"
)

// Destination for reassembled payloads
type Forwarder interface {
	Forward(ctx context.Context, data []byte, source string) (err error)
}

type Instance struct {
	Namespace     []string
	store         *pending.Store
	forward       Forwarder
	sweepInterval time.Duration
	chunkLifetime time.Duration // max age of the oldest chunk before the message is dropped
	Metrics       *MetricStorage
}
