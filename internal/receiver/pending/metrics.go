package pending

import (
	"sync/atomic"
	"time"

	"gelfgate/internal/metrics"
)

type MetricStorage struct {
	PendingMessages atomic.Uint64 // messages currently buffered
	PendingBytes    atomic.Uint64 // payload bytes currently buffered

	InsertCount    atomic.Uint64 // chunks inserted in the interval
	OverwriteCount atomic.Uint64 // repeat (id, seq) inserts in the interval
}

func (store *Store) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()

	add := func(name string, raw interface{}, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   store.Namespace,
			Type:        t,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("pending_messages", store.Metrics.PendingMessages.Load(), "count", metrics.Gauge, "Messages currently awaiting reassembly")
	add("pending_bytes", store.Metrics.PendingBytes.Load(), "bytes", metrics.Gauge, "Payload bytes currently awaiting reassembly")
	add("insert_count", store.Metrics.InsertCount.Swap(0), "count", metrics.Counter, "Chunks buffered in the interval")
	add("overwrite_count", store.Metrics.OverwriteCount.Swap(0), "count", metrics.Counter, "Duplicate sequence slots overwritten in the interval")

	return
}

// Current pending byte gauge, read by the sweeper for memory pressure checks
func (store *Store) PendingBytes() (bytes uint64) {
	bytes = store.Metrics.PendingBytes.Load()
	return
}
