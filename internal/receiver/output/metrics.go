package output

import (
	"sync/atomic"
	"time"

	"gelfgate/internal/metrics"
)

type MetricStorage struct {
	ReceivedMessages      atomic.Uint64 // envelopes taken off the output queue
	ParseFailures         atomic.Uint64 // envelopes that failed decompression or json parsing
	SuccessfulFileWrites  atomic.Uint64 // lines written to the file output
	SuccessfulBeatsWrites atomic.Uint64 // events sent to the beats output
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

	add("received_messages", instance.Metrics.ReceivedMessages.Swap(0), "count", metrics.Counter, "Messages taken off the output queue in the interval")
	add("parse_failures", instance.Metrics.ParseFailures.Swap(0), "count", metrics.Counter, "Messages that failed decompression or parsing in the interval")
	add("file_writes", instance.Metrics.SuccessfulFileWrites.Swap(0), "count", metrics.Counter, "Lines written to the file output in the interval")
	add("beats_writes", instance.Metrics.SuccessfulBeatsWrites.Swap(0), "count", metrics.Counter, "Events sent to the beats output in the interval")

	return
}
