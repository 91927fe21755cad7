// Reads datagrams from the network and conducts pre-validation
package listener

import (
	"context"
	"errors"
	"net"
	"runtime/debug"
	"time"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/queue/mpmc"
)

// Smallest payload this daemon can do anything with, one compression magic pair
const minDatagramLen = 2

func New(namespace []string, conn *net.UDPConn, queue *mpmc.Queue[Container]) (new *Instance) {
	new = &Instance{
		Namespace: append(namespace, global.NSListen),
		conn:      conn,
		Outbox:    queue,
		Metrics:   MetricStorage{},
	}
	return
}

func (instance *Instance) Run(ctx context.Context) {
	buffer := make([]byte, 65535)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			defer func() {
				// Record panics and continue listening
				if fatalError := recover(); fatalError != nil {
					stack := debug.Stack()
					logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "panic in listener worker thread: %v\n%s", fatalError, stack)
				}
			}()

			// Blocking until data or connection is closed by manager
			endIndex, remoteAddr, err := instance.conn.ReadFromUDP(buffer)
			start := time.Now() // Record start time immediately after we read the packet
			if err != nil {
				if ctx.Err() != nil {
					// Cancellation received, graceful shutdown
					return
				}

				// If conn closed but ctx NOT canceled, return - treat as shutdown
				if errors.Is(err, net.ErrClosed) {
					return
				}

				// Otherwise, regular error
				logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed reading data from socket: %v\n", err)
				instance.Metrics.BusyNs.Add(uint64(time.Since(start)))
				return
			}

			payload := append([]byte(nil), buffer[:endIndex]...)

			// Pre validation
			if len(payload) < minDatagramLen {
				instance.Metrics.InvalidPackets.Add(1)
				instance.Metrics.BusyNs.Add(uint64(time.Since(start)))
				logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog, "Received undersized datagram from %s (%d bytes)\n", remoteAddr.String(), len(payload))
				return
			}

			var newQueueEntry Container
			newQueueEntry.Data = payload
			newQueueEntry.Meta.RemoteAddr = remoteAddr.String()
			newQueueEntry.Meta.ReceivedAt = start

			// Record time metrics post-validation
			durNs := time.Since(start).Nanoseconds()
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

			if !instance.Outbox.Push(newQueueEntry) {
				// Queue full, datagram is lost
				instance.Metrics.QueueFullDrops.Add(1)
				instance.Metrics.BusyNs.Add(uint64(time.Since(start)))
				logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog, "Dropped datagram from %s, intake queue full\n", remoteAddr.String())
				return
			}

			// Add data size to sum
			size := len(newQueueEntry.Data) + len(newQueueEntry.Meta.RemoteAddr)
			instance.Outbox.Metrics.Bytes.Add(uint64(size))
			instance.Metrics.ValidPackets.Add(1) // increment success after push
			instance.Metrics.BusyNs.Add(uint64(time.Since(start)))
		}()
	}
}
