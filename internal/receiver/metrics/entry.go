// Gathers instance metrics and saves to central registry
package metrics

import (
	"context"
	"runtime/debug"
	"time"

	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/metrics"
	"gelfgate/internal/receiver/shared"
)

func New(mgrs shared.Managers, interval time.Duration, maximumMetricAge time.Duration) (new *Gatherer) {
	new = &Gatherer{
		Registry:  metrics.New(),
		Mgrs:      mgrs,
		Interval:  interval,
		Retention: maximumMetricAge,
	}
	return
}

func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetric)
	defer func() { ctx = logctx.RemoveLastCtxTag(ctx) }()

	// Track last run times for each interval
	lastRun := time.Now()

	ticker := time.NewTicker(gatherer.Interval / 2) // Use polling interval half of desired record interval
	defer ticker.Stop()

	// Counter to track how many ticks have passed (for retention)
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)

				lastRun = now
				go gatherer.runIntervalTasks(ctx, timeSlice, gatherer.Interval)
			}

			// Conduct old metric evaluations and cleanup
			tickCount++
			if tickCount >= 30 {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0 // Reset the counter after cleanup
			}
		}
	}
}

// Read and calculate metrics for each pipeline component
func (gatherer *Gatherer) runIntervalTasks(ctx context.Context, timeSlice time.Time, interval time.Duration) {
	// Record panics and continue on next interval
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in receiver metric collector thread: %v\n%s", fatalError, stack)
		}
	}()

	// Gatherer is started post-daemon pipeline startup, therefore certain pointers have to be initialized already (startup is run synchronously)

	// Listeners
	gatherer.Mgrs.Input.Mu.Lock() // Ensure instances don't disappear mid-read
	for _, instance := range gatherer.Mgrs.Input.Instances {
		m1 := instance.Listener.CollectMetrics(interval)
		gatherer.Registry.Add(timeSlice, m1)
	}
	gatherer.Mgrs.Input.Mu.Unlock()

	// Listener-to-processor queue
	m1 := gatherer.Mgrs.Proc.Inbox.CollectMetrics(interval)
	gatherer.Registry.Add(timeSlice, m1)

	// Processors
	var procCollect []metrics.Metric // collection for all instances
	gatherer.Mgrs.Proc.Mu.Lock()
	for _, instance := range gatherer.Mgrs.Proc.Instances {
		m2 := instance.Processor.CollectMetrics(interval)
		procCollect = append(procCollect, m2...)
	}
	gatherer.Mgrs.Proc.Mu.Unlock()
	gatherer.Registry.Add(timeSlice, procCollect)

	// Pending chunk store
	m2 := gatherer.Mgrs.Proc.Store.CollectMetrics(interval)
	gatherer.Registry.Add(timeSlice, m2)

	// Sweeper
	gatherer.Mgrs.Proc.Mu.Lock()
	if gatherer.Mgrs.Proc.Sweep != nil {
		m3 := gatherer.Mgrs.Proc.Sweep.Sweeper.CollectMetrics(interval)
		gatherer.Registry.Add(timeSlice, m3)
	}
	gatherer.Mgrs.Proc.Mu.Unlock()

	// Output
	// Inbox Queue
	m4 := gatherer.Mgrs.Output.Queue.CollectMetrics(interval)
	gatherer.Registry.Add(timeSlice, m4)

	// Worker
	if gatherer.Mgrs.Output.Instance.Worker != nil {
		m5 := gatherer.Mgrs.Output.Instance.Worker.CollectMetrics(interval)
		gatherer.Registry.Add(timeSlice, m5)
	}
}
