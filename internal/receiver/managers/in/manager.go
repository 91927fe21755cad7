// Manages packet listener worker instances
package in

import (
	"context"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
)

// Creates new instance manager
func NewInstanceManager(ctx context.Context, port int, outQueue *mpmc.Queue[listener.Container]) (new *InstanceManager) {
	ctx = logctx.AppendCtxTag(ctx, global.NSmIngest)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	new = &InstanceManager{
		Instances: make(map[int]*Instance),
		port:      port,
		outbox:    outQueue,
		ctx:       ctx,
	}
	return
}

// Stop and remove all running instances
func (manager *InstanceManager) RemoveAll() {
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
