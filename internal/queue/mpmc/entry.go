// Multi-producer Multi-Consumer lock-free ring buffer queue with power-of-two capacity
package mpmc

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"gelfgate/internal/atomics"
	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
)

// Creates a new queue
func New[T any](namespace []string, capacity uint64) (new *Queue[T], err error) {
	if (capacity & (capacity - 1)) != 0 {
		err = fmt.Errorf("capacity must be a power of two")
		return
	}
	if capacity < 2 {
		err = fmt.Errorf("capacity must be greater than or equal to 2")
		return
	}

	buf := make([]cell[T], capacity)
	for i := uint64(0); i < capacity; i++ {
		buf[i].seq.Store(i)
	}

	new = &Queue[T]{
		Namespace: append(namespace, global.NSQueue),
		Size:      int(capacity),
		mask:      capacity - 1,
		buf:       buf,
		notEmpty:  make(chan struct{}, 1),
		Metrics:   &MetricStorage{},
	}
	return
}

// Poll based wrapper around Push function to block until succeed (includes built-in poll interval)
func (queue *Queue[T]) PushBlocking(ctx context.Context, value T, size int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if queue.Push(value) { // try once
				queue.Metrics.Bytes.Add(uint64(size))
				return
			}
			time.Sleep(10 * time.Millisecond) // or backoff
		}
	}
}

// Attempts to write an element (non success = queue full)
func (queue *Queue[T]) Push(value T) (success bool) {
	queue.Metrics.PushAttempts.Add(1)

	var pos, seq uint64
	var cell *cell[T]

	for {
		pos = queue.tail.Load()
		cell = &queue.buf[pos&queue.mask]
		seq = cell.seq.Load()

		if seq == pos {
			if queue.tail.CompareAndSwap(pos, pos+1) {
				queue.Metrics.PushSuccess.Add(1)
				break
			}
			queue.Metrics.PushCASRetries.Add(1)
		} else if seq < pos {
			queue.Metrics.PushFull.Add(1)
			success = false // queue full
			return
		} else {
			runtime.Gosched() // yield then retry
		}
	}

	cell.data = value
	cell.seq.Store(pos + 1)
	queue.Metrics.Depth.Add(1)

	// notify blocked consumers, non-blocking
	select {
	case queue.notEmpty <- struct{}{}:
	default:
	}

	success = true
	return
}

// Attempts to read an element, blocking until one is available or the context ends
func (queue *Queue[T]) Pop(ctx context.Context) (out T, success bool) {
	var pos, seq uint64
	var cell *cell[T]

	for {
		queue.Metrics.PopAttempts.Add(1)

		pos = queue.head.Load()
		cell = &queue.buf[pos&queue.mask]
		seq = cell.seq.Load()
		readySeq := pos + 1

		if seq == readySeq {
			if queue.head.CompareAndSwap(pos, pos+1) {
				out = cell.data
				cell.seq.Store(pos + queue.mask + 1)

				queue.Metrics.PopSuccess.Add(1)
				ok := atomics.Subtract(&queue.Metrics.Depth, 1, 4) // max retries set at 4
				if !ok {
					logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
						"failed to decrement queue depth metric after successful pop\n")
				}

				success = true
				return
			}
			queue.Metrics.PopCASRetries.Add(1)
			continue
		}

		// queue empty: wait for signal or context cancel
		if seq < readySeq {
			select {
			case <-ctx.Done():
				success = false
				return
			case <-queue.notEmpty:
				continue // retry after being signaled
			}
		}

		// seq > readySeq, another consumer ahead, retry
		runtime.Gosched()
	}
}

// Current item count
func (queue *Queue[T]) Depth() (depth uint64) {
	depth = queue.Metrics.Depth.Load()
	return
}
