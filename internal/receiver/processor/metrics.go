package processor

import (
	"sync/atomic"
	"time"

	"gelfgate/internal/metrics"
)

type MetricStorage struct {
	ChunksBuffered  atomic.Uint64 // chunks accepted into the pending store
	UnchunkedPassed atomic.Uint64 // whole messages passed straight to output
	MalformedChunks atomic.Uint64 // datagrams with chunk magic but a bad header
	UnknownEncoding atomic.Uint64 // unchunked datagrams with no recognizable encoding
	SumNs           atomic.Uint64 // sum of elapsed ns for all ops
	MaxNs           atomic.Uint64 // max observed op duration
}

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	chunks := instance.Metrics.ChunksBuffered.Swap(0)
	unchunked := instance.Metrics.UnchunkedPassed.Swap(0)
	malformed := instance.Metrics.MalformedChunks.Swap(0)
	unknown := instance.Metrics.UnknownEncoding.Swap(0)
	sumNs := instance.Metrics.SumNs.Swap(0)
	maxNs := instance.Metrics.MaxNs.Swap(0)

	recordTime := time.Now()

	total := chunks + unchunked + malformed + unknown
	var avgNs uint64
	if total > 0 {
		avgNs = sumNs / total
	}

	add := func(name string, raw interface{}, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   instance.Namespace,
			Type:        t,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("chunks_buffered", chunks, "count", metrics.Counter, "Chunks accepted into the pending store in the interval")
	add("unchunked_passed", unchunked, "count", metrics.Counter, "Whole messages passed straight to output in the interval")
	add("malformed_chunks", malformed, "count", metrics.Counter, "Datagrams with chunk magic but an invalid header in the interval")
	add("unknown_encoding", unknown, "count", metrics.Counter, "Unchunked datagrams with no recognizable encoding in the interval")
	add("elapsed_time_sum_ns", sumNs, "ns", metrics.Counter, "Total time spent classifying datagrams in the interval")
	add("elapsed_time_avg_ns", avgNs, "ns", metrics.Summary, "Average time spent classifying datagrams in the interval")
	add("elapsed_time_max_ns", maxNs, "ns", metrics.Summary, "Maximum (seen) time spent classifying datagrams in the interval")
	return
}
