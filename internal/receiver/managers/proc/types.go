package proc

import (
	"context"
	"sync"

	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
	"gelfgate/internal/receiver/pending"
	"gelfgate/internal/receiver/processor"
	"gelfgate/internal/receiver/sweeper"
	"gelfgate/pkg/gelf"
)

type InstanceManager struct {
	Mu        sync.Mutex        // For add/remove operations
	nextID    int               // Next free ID for new instance
	Instances map[int]*Instance // Existing running instances
	Inbox     *mpmc.Queue[listener.Container]
	Store     *pending.Store // Shared chunk buffer across all processors and the sweeper
	Sweep     *SweepInstance // Single reassembly sweeper
	outbox    *mpmc.Queue[gelf.Envelope]
	ctx       context.Context
}

type Instance struct {
	Processor *processor.Instance // Datagram classifier

	wg     sync.WaitGroup     // Waiter for instance
	cancel context.CancelFunc // Stop instance
}

type SweepInstance struct {
	Sweeper *sweeper.Instance

	wg     sync.WaitGroup
	cancel context.CancelFunc
}
