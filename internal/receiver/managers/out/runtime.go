package out

import (
	"context"
	"fmt"

	"gelfgate/internal/externalio/beats"
	"gelfgate/internal/externalio/file"
	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/receiver/output"
)

// Create and start new output instance
func (manager *InstanceManager) AddInstance(filePath string, beatsEndpoint string) (err error) {
	if filePath == "" && beatsEndpoint == "" {
		err = fmt.Errorf("no outputs enabled/configured")
		return
	}

	fileMod, err := file.NewOutput(filePath)
	if err != nil {
		return
	}

	beatsMod, err := beats.NewOutput(beatsEndpoint)
	if err != nil {
		return
	}

	// Create new context for output instance
	workerCtx, cancelInstance := context.WithCancel(context.Background())
	workerCtx = context.WithValue(workerCtx, global.LoggerKey, logctx.GetLogger(manager.ctx))

	instance := &OutputInstance{
		Worker: output.New(logctx.GetTagList(manager.ctx), manager.Queue, fileMod, beatsMod),
		cancel: cancelInstance,
	}

	manager.Instance = instance

	instance.wg.Add(1)
	go func() {
		defer instance.wg.Done()
		workerCtx := logctx.OverwriteCtxTag(workerCtx, instance.Worker.Namespace)
		instance.Worker.Run(workerCtx)
	}()
	return
}

// Stop the output instance, flushing buffered lines
func (manager *InstanceManager) RemoveInstance() {
	instance := manager.Instance
	if instance == nil || instance.cancel == nil {
		return
	}

	instance.cancel()
	instance.wg.Wait()

	if instance.Worker.FileMod != nil {
		err := instance.Worker.FileMod.Close()
		if err != nil {
			logctx.LogEvent(manager.ctx, global.VerbosityStandard, global.ErrorLog,
				"Failed to close file output: %v\n", err)
		}
	}
	if instance.Worker.BeatsMod != nil {
		err := instance.Worker.BeatsMod.Close()
		if err != nil {
			logctx.LogEvent(manager.ctx, global.VerbosityStandard, global.ErrorLog,
				"Failed to close beats output: %v\n", err)
		}
	}

	manager.Instance = &OutputInstance{}
}
