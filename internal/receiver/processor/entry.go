// Classifies received datagrams, buffering chunks and passing whole messages through
package processor

import (
	"context"
	"runtime/debug"
	"time"

	"gelfgate/internal/atomics"
	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
	"gelfgate/internal/receiver/listener"
	"gelfgate/internal/receiver/pending"
	"gelfgate/pkg/gelf"
)

// Creates new processor with requested queue as inbox
func New(namespace []string, inbox *mpmc.Queue[listener.Container], store *pending.Store, outbox *mpmc.Queue[gelf.Envelope]) (new *Instance) {
	new = &Instance{
		Namespace: append(namespace, global.NSWorker),
		inbox:     inbox,
		store:     store,
		outbox:    outbox,
		Metrics:   MetricStorage{},
	}
	return
}

func (instance *Instance) Run(ctx context.Context) {
	for {
		// Stop this worker when cancel requested
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			// Record panics and continue processing
			defer func() {
				if fatalError := recover(); fatalError != nil {
					stack := debug.Stack()
					logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
						"panic in processor worker thread: %v\n%s", fatalError, stack)
				}
			}()

			queueEntry, received := instance.inbox.Pop(ctx)
			if !received {
				return
			}
			size := len(queueEntry.Data) + len(queueEntry.Meta.RemoteAddr)
			// Subtract data size from sum
			atomics.Subtract(&instance.inbox.Metrics.Bytes, uint64(size), 4)

			processingStartTime := time.Now() // Record start time immediately after we read the queue entry

			instance.handle(ctx, queueEntry)

			// Record time metrics
			durNs := time.Since(processingStartTime).Nanoseconds()
			instance.Metrics.SumNs.Add(uint64(durNs))
			oldMax := int64(instance.Metrics.MaxNs.Load())
			for {
				if durNs > oldMax {
					if instance.Metrics.MaxNs.CompareAndSwap(uint64(oldMax), uint64(durNs)) {
						break
					}
					oldMax = int64(instance.Metrics.MaxNs.Load())
				} else {
					break
				}
			}
		}()
	}
}

// Routes one datagram to the chunk buffer or straight to output
func (instance *Instance) handle(ctx context.Context, queueEntry listener.Container) {
	data := queueEntry.Data

	if gelf.IsChunked(data) {
		chunk, err := gelf.ParseChunk(data)
		if err != nil {
			instance.Metrics.MalformedChunks.Add(1)
			logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
				"Dropped malformed chunk from %s: %v\n", queueEntry.Meta.RemoteAddr, err)
			return
		}

		instance.store.Insert(chunk, queueEntry.Meta.RemoteAddr, queueEntry.Meta.ReceivedAt)
		instance.Metrics.ChunksBuffered.Add(1)
		logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
			"Buffered chunk %d/%d of message id %s from %s\n",
			chunk.SequenceNumber+1, chunk.SequenceCount, gelf.FormatMessageID(chunk.MessageID), queueEntry.Meta.RemoteAddr)
		return
	}

	// Unchunked datagrams skip the reassembly buffer entirely
	if gelf.DetectEncoding(data) == gelf.EncodingUnknown {
		instance.Metrics.UnknownEncoding.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
			"Dropped datagram with unrecognized encoding from %s\n", queueEntry.Meta.RemoteAddr)
		return
	}

	envelope := gelf.Envelope{
		Data:       data,
		Source:     queueEntry.Meta.RemoteAddr,
		ReceivedAt: queueEntry.Meta.ReceivedAt,
	}
	instance.outbox.PushBlocking(ctx, envelope, len(envelope.Data)+len(envelope.Source))
	instance.Metrics.UnchunkedPassed.Add(1)
}
