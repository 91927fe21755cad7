package out

import (
	"context"
	"sync"

	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/output"
	"gelfgate/pkg/gelf"
)

type InstanceManager struct {
	Queue    *mpmc.Queue[gelf.Envelope] // Shared queue between processors, the sweeper, and the output worker
	Instance *OutputInstance            // Worker for writing output
	ctx      context.Context
}

type OutputInstance struct {
	Worker *output.Instance   // Individual output worker
	wg     sync.WaitGroup     // Waiter for instance
	cancel context.CancelFunc // Stop instance
}
