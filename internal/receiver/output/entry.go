// Handles parsing final messages and writing to configured output destinations (file, beats)
package output

import (
	"context"
	"runtime/debug"
	"time"

	"gelfgate/internal/atomics"
	"gelfgate/internal/externalio/beats"
	"gelfgate/internal/externalio/file"
	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/pkg/gelf"
)

// Creates new worker instance
func New(namespace []string, inQueue *mpmc.Queue[gelf.Envelope], fileMod *file.OutModule, beatsMod *beats.OutModule) (new *Instance) {
	new = &Instance{
		Namespace: append(namespace, global.NSWorker),
		FileMod:   fileMod,
		BeatsMod:  beatsMod,
		Inbox:     inQueue,
		Metrics:   MetricStorage{},
	}
	return
}

// Take finished messages and write to configured outputs
func (instance *Instance) Run(ctx context.Context) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	popCh := make(chan gelf.Envelope, 1)

	go func() {
		for {
			envelope, ok := instance.Inbox.Pop(ctx)
			if !ok {
				select {
				case <-ctx.Done():
					return
				default:
					continue
				}
			}
			popCh <- envelope
			// Subtract data size from sum
			size := len(envelope.Data) + len(envelope.Source)
			atomics.Subtract(&instance.Inbox.Metrics.Bytes, uint64(size), 4)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			if instance.FileMod != nil {
				n, err := instance.FileMod.FlushBuffer()
				if err != nil {
					logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
						"Failed final flush of file output buffer: %v\n", err)
				}
				instance.Metrics.SuccessfulFileWrites.Add(uint64(n))
			}
			return
		case <-ticker.C:
			if instance.FileMod != nil {
				// Periodic flush of file output event buffer
				// Buffer might never fill and flush if we don't get enough messages
				n, err := instance.FileMod.FlushBuffer()
				if err != nil {
					logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
						"Failed periodic flush of file output buffer: %v\n", err)
				}
				instance.Metrics.SuccessfulFileWrites.Add(uint64(n))
			}
		case envelope := <-popCh:
			func() {
				// Record panics and continue output
				defer func() {
					if fatalError := recover(); fatalError != nil {
						stack := debug.Stack()
						logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
							"panic in output worker thread: %v\n%s", fatalError, stack)
					}
				}()

				instance.Metrics.ReceivedMessages.Add(1)

				message, err := gelf.Parse(envelope.Data)
				if err != nil {
					instance.Metrics.ParseFailures.Add(1)
					logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
						"Failed to parse message from %s: %v\n", envelope.Source, err)
					return
				}

				// Write message to all outputs
				if instance.FileMod != nil {
					n, err := instance.FileMod.Write(formatAsText(message, envelope))
					if err != nil {
						logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
							"Failed to write message(s) to file output: %v\n", err)
					}
					instance.Metrics.SuccessfulFileWrites.Add(uint64(n))
				}

				if instance.BeatsMod != nil {
					n, err := instance.BeatsMod.Write(message, envelope)
					if err != nil {
						logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
							"Failed to write message(s) to beats output: %v\n", err)
					}
					instance.Metrics.SuccessfulBeatsWrites.Add(uint64(n))
				}
			}()
		}
	}
}
