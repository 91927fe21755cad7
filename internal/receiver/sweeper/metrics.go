package sweeper

import (
	"sync/atomic"
	"time"

	"gelfgate/internal/metrics"
)

type MetricStorage struct {
	SweepCount      atomic.Uint64 // sweeps started
	SweepDurationNs atomic.Uint64 // summed sweep wall time

	OutdatedDropped atomic.Uint64 // messages dropped past their lifetime
	Dispatched      atomic.Uint64 // complete messages handed to the forwarder
	ReassemblyRaces atomic.Uint64 // ids that vanished between snapshot and read
	ForwardFailures atomic.Uint64 // messages removed but not delivered
}

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	recordTime := time.Now()

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

	add("sweep_count", instance.Metrics.SweepCount.Swap(0), "count", metrics.Counter, "Sweep passes started in the interval")
	add("sweep_duration_sum", instance.Metrics.SweepDurationNs.Swap(0), "ns", metrics.Counter, "Summed sweep wall time in the interval")
	add("outdated_dropped", instance.Metrics.OutdatedDropped.Swap(0), "count", metrics.Counter, "Messages dropped for exceeding the chunk lifetime in the interval")
	add("dispatched_messages", instance.Metrics.Dispatched.Swap(0), "count", metrics.Counter, "Complete messages reassembled and forwarded in the interval")
	add("reassembly_races", instance.Metrics.ReassemblyRaces.Swap(0), "count", metrics.Counter, "Message ids that vanished mid-sweep in the interval")
	add("forward_failures", instance.Metrics.ForwardFailures.Swap(0), "count", metrics.Counter, "Reassembled messages removed but not delivered in the interval")

	return
}
