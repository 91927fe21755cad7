package listener

import (
	"sync/atomic"
	"time"

	"gelfgate/internal/metrics"
)

type MetricStorage struct {
	BusyNs         atomic.Uint64 // sum of ns spent doing anything
	ValidPackets   atomic.Uint64 // number of received packets that passed validation
	InvalidPackets atomic.Uint64 // number of received packets that failed validation
	QueueFullDrops atomic.Uint64 // valid packets lost because the intake queue was full
	SumNs          atomic.Uint64 // sum of elapsed ns for all ops
	MaxNs          atomic.Uint64 // max observed op duration
}

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	busyNs := instance.Metrics.BusyNs.Swap(0)
	valid := instance.Metrics.ValidPackets.Swap(0)
	invalid := instance.Metrics.InvalidPackets.Swap(0)
	dropped := instance.Metrics.QueueFullDrops.Swap(0)
	sumNs := instance.Metrics.SumNs.Swap(0)
	maxNs := instance.Metrics.MaxNs.Swap(0)

	// Record read time
	recordTime := time.Now()

	// Percent worker was busy
	busyPct := (float64(busyNs) / float64(interval.Nanoseconds())) * 100

	total := valid + invalid + dropped
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

	add("busy_time_percent", busyPct, "%", metrics.Summary, "Total time spent doing anything in the interval")
	add("valid_packets_total", valid, "count", metrics.Counter, "Total packets that passed basic validation in the interval")
	add("invalid_packets_total", invalid, "count", metrics.Counter, "Total packets that failed basic validation in the interval")
	add("queue_full_drops", dropped, "count", metrics.Counter, "Total valid packets lost to a full intake queue in the interval")
	add("total_packets", total, "count", metrics.Counter, "Total packets received in the interval")
	add("elapsed_time_sum_ns", sumNs, "ns", metrics.Counter, "Total time spent validating packets in the interval")
	add("elapsed_time_avg_ns", avgNs, "ns", metrics.Summary, "Average time spent validating packets in the interval")
	add("elapsed_time_max_ns", maxNs, "ns", metrics.Summary, "Maximum (seen) time spent validating packets in the interval")
	return
}
