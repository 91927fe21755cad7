package proc

import (
	"context"
	"strconv"
	"time"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/receiver/dispatch"
	"gelfgate/internal/receiver/processor"
	"gelfgate/internal/receiver/sweeper"
)

// Create additional processor instance
func (manager *InstanceManager) AddInstance() (id int) {
	manager.Mu.Lock()
	defer manager.Mu.Unlock()

	id = manager.nextID
	manager.nextID++

	// Add log context
	manager.ctx = logctx.AppendCtxTag(manager.ctx, strconv.Itoa(id))
	defer func() { manager.ctx = logctx.RemoveLastCtxTag(manager.ctx) }()

	procInstance := &Instance{
		Processor: processor.New(logctx.GetTagList(manager.ctx), manager.Inbox, manager.Store, manager.outbox),
	}

	manager.Instances[id] = procInstance

	// Create new context for processor worker
	workerCtx, cancelInstance := context.WithCancel(context.Background())
	procInstance.cancel = cancelInstance
	workerCtx = context.WithValue(workerCtx, global.LoggerKey, logctx.GetLogger(manager.ctx))

	procInstance.wg.Add(1)
	go func() {
		defer procInstance.wg.Done()
		workerCtx := logctx.OverwriteCtxTag(workerCtx, procInstance.Processor.Namespace)
		procInstance.Processor.Run(workerCtx)
	}()
	return
}

// Remove existing instance
func (manager *InstanceManager) RemoveInstance(id int) {
	manager.Mu.Lock()
	defer manager.Mu.Unlock()

	procInstance, ok := manager.Instances[id]
	if ok {
		if procInstance.cancel != nil {
			procInstance.cancel()
		}

		procInstance.wg.Wait()

		delete(manager.Instances, id)
	}
}

// Start the single reassembly sweeper over the shared store
func (manager *InstanceManager) StartSweeper(sweepInterval, chunkLifetime time.Duration) {
	manager.Mu.Lock()
	defer manager.Mu.Unlock()

	if manager.Sweep != nil {
		return
	}

	forwarder := dispatch.New(logctx.GetTagList(manager.ctx), manager.outbox)

	sweepInstance := &SweepInstance{
		Sweeper: sweeper.New(logctx.GetTagList(manager.ctx), manager.Store, forwarder, sweepInterval, chunkLifetime),
	}
	manager.Sweep = sweepInstance

	sweepCtx, cancelInstance := context.WithCancel(context.Background())
	sweepInstance.cancel = cancelInstance
	sweepCtx = context.WithValue(sweepCtx, global.LoggerKey, logctx.GetLogger(manager.ctx))

	sweepInstance.wg.Add(1)
	go func() {
		defer sweepInstance.wg.Done()
		sweepCtx := logctx.OverwriteCtxTag(sweepCtx, sweepInstance.Sweeper.Namespace)
		sweepInstance.Sweeper.Run(sweepCtx)
	}()
}

// Stop the reassembly sweeper
func (manager *InstanceManager) StopSweeper() {
	manager.Mu.Lock()
	defer manager.Mu.Unlock()

	if manager.Sweep == nil {
		return
	}

	if manager.Sweep.cancel != nil {
		manager.Sweep.cancel()
	}
	manager.Sweep.wg.Wait()
	manager.Sweep = nil
}
