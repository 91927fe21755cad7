// Manages processor worker instances and the reassembly sweeper
package proc

import (
	"context"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
	"gelfgate/internal/receiver/pending"
	"gelfgate/pkg/gelf"
)

// Creates new instance manager with the inbox queue and the shared chunk store
func NewInstanceManager(ctx context.Context, inQueueSize, storeShards int, outQueue *mpmc.Queue[gelf.Envelope]) (new *InstanceManager, err error) {
	// Add log context
	ctx = logctx.AppendCtxTag(ctx, global.NSmProc)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	inQueue, err := mpmc.New[listener.Container](logctx.GetTagList(ctx), uint64(inQueueSize))
	if err != nil {
		return
	}

	new = &InstanceManager{
		Instances: make(map[int]*Instance),
		Inbox:     inQueue,
		Store:     pending.New(logctx.GetTagList(ctx), storeShards),
		outbox:    outQueue,
		ctx:       ctx,
	}
	return
}

// Stop and remove all running instances including the sweeper
func (manager *InstanceManager) RemoveAll() {
	manager.StopSweeper()

	manager.Mu.Lock()
	ids := make([]int, 0, len(manager.Instances))
	for id := range manager.Instances {
		ids = append(ids, id)
	}
	manager.Mu.Unlock()

	for _, id := range ids {
		manager.RemoveInstance(id)
	}
}
