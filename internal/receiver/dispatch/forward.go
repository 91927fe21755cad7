// Hands reassembled messages from the sweeper to the output queue
package dispatch

import (
	"context"
	"fmt"
	"time"

	"gelfgate/internal/queue/mpmc"
	"gelfgate/pkg/gelf"
)

type QueueForwarder struct {
	Namespace []string
	outbox    *mpmc.Queue[gelf.Envelope]
}

func New(namespace []string, outbox *mpmc.Queue[gelf.Envelope]) (new *QueueForwarder) {
	new = &QueueForwarder{
		Namespace: namespace,
		outbox:    outbox,
	}
	return
}

// Pushes a reassembled payload onto the output queue.
// Bounded retries, the sweeper must never block on a full queue.
func (forwarder *QueueForwarder) Forward(ctx context.Context, data []byte, source string) (err error) {
	envelope := gelf.Envelope{
		Data:       data,
		Source:     source,
		ReceivedAt: time.Now(),
	}

	maxRetries := 4
	retryWait := 5 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		if forwarder.outbox.Push(envelope) {
			forwarder.outbox.Metrics.Bytes.Add(uint64(len(envelope.Data) + len(envelope.Source)))
			return
		}

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case <-time.After(retryWait):
		}
	}

	err = fmt.Errorf("output queue full after %d attempts", maxRetries)
	return
}
