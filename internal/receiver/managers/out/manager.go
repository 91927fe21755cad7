// Manages output writer worker instance
package out

import (
	"context"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/pkg/gelf"
)

// Creates new instance manager with shared output queue
func NewInstanceManager(ctx context.Context, size int) (new *InstanceManager, err error) {
	// Add log context
	ctx = logctx.AppendCtxTag(ctx, global.NSmOutput)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	outQueue, err := mpmc.New[gelf.Envelope](logctx.GetTagList(ctx), uint64(size))
	if err != nil {
		return
	}

	new = &InstanceManager{
		Instance: &OutputInstance{},
		Queue:    outQueue,
		ctx:      ctx,
	}
	return
}
