// Daemon for continuous reception of log datagrams, reassembly of chunked messages, and delivery to configured output destinations
package receiver

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gelfgate/internal/atomics"
	"gelfgate/internal/externalio/server"
	"gelfgate/internal/global"
	"gelfgate/internal/logctx"
	"gelfgate/internal/receiver/managers/in"
	"gelfgate/internal/receiver/managers/out"
	"gelfgate/internal/receiver/managers/proc"
	"gelfgate/internal/receiver/metrics"
)

// Create new receiver daemon instance
func NewDaemon(cfg Config) (new *Daemon) {
	ctx, cancel := context.WithCancel(context.Background())
	new = &Daemon{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
	return
}

// Starts pipeline worker threads in background - gracefully shuts down if startup error is encountered
func (daemon *Daemon) Start(globalCtx context.Context) (err error) {
	// New context for the daemon
	daemon.ctx, daemon.cancel = context.WithCancel(context.Background())
	daemon.ctx = context.WithValue(daemon.ctx, global.LoggerKey, logctx.GetLogger(globalCtx))

	// Top level tag for daemon logs
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSRecv)
	defer func() { daemon.ctx = logctx.RemoveLastCtxTag(daemon.ctx) }()

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	// Pre-startup
	daemon.cfg.setDefaults()

	global.Hostname, err = os.Hostname()
	if err != nil {
		err = fmt.Errorf("failed to determine local hostname: %v", err)
		return
	}
	global.PID = os.Getpid()

	// Stage 3 - Output Manager
	daemon.Mgrs.Output, err = out.NewInstanceManager(daemon.ctx, daemon.cfg.OutputQueueSize)
	if err != nil {
		err = fmt.Errorf("failed creating output instance manager: %v", err)
		return
	}
	err = daemon.Mgrs.Output.AddInstance(daemon.cfg.OutputFilePath, daemon.cfg.BeatsEndpoint)
	if err != nil {
		err = fmt.Errorf("failed starting output: %v", err)
		return
	}

	// Stage 2 - Processor + Sweeper
	daemon.Mgrs.Proc, err = proc.NewInstanceManager(daemon.ctx,
		daemon.cfg.ProcQueueSize,
		daemon.cfg.StoreShards,
		daemon.Mgrs.Output.Queue)
	if err != nil {
		err = fmt.Errorf("failed adding new processor manager: %v", err)
		daemon.Shutdown()
		return
	}
	for i := 0; i < daemon.cfg.Processors; i++ {
		daemon.Mgrs.Proc.AddInstance()
	}
	daemon.Mgrs.Proc.StartSweeper(daemon.cfg.SweepInterval, daemon.cfg.ChunkLifetime)

	// Start handling exit signals before listener starts ingesting messages
	go signalHandler(daemon)

	// Stage 1 - Listener
	daemon.Mgrs.Input = in.NewInstanceManager(daemon.ctx,
		daemon.cfg.ListenPort,
		daemon.Mgrs.Proc.Inbox)
	for i := 0; i < daemon.cfg.Listeners; i++ {
		_, err = daemon.Mgrs.Input.AddInstance()
		if err != nil {
			err = fmt.Errorf("failed adding new listener instance: %v", err)
			daemon.Shutdown()
			return
		}
	}

	// Metrics Collector
	daemon.metricsCollector = metrics.New(daemon.Mgrs,
		daemon.cfg.MetricCollectionInterval,
		daemon.cfg.MetricMaxAge)
	workerCtx := daemon.ctx
	daemon.wg.Add(1)
	go func() {
		defer daemon.wg.Done()
		daemon.metricsCollector.Run(workerCtx)
	}()
	daemon.MetricDataSearcher = daemon.metricsCollector.Registry.Search
	daemon.MetricDiscoverer = daemon.metricsCollector.Registry.Discover

	// Metric Server
	if daemon.cfg.MetricQueryServerEnabled {
		// Top level tag for metric server logs (copy so return doesn't strip ns tags)
		serverCtx := daemon.ctx
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetric)
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetricSrv)

		daemon.MetricServer, err = server.SetupListener(serverCtx,
			daemon.cfg.MetricQueryServerPort,
			daemon.MetricDataSearcher,
			daemon.MetricDiscoverer)
		if err != nil {
			err = fmt.Errorf("failed setting up metric query server: %v", err)
			daemon.Shutdown()
			return
		}
		daemon.wg.Add(1)
		go func() {
			defer daemon.wg.Done()
			server.Start(serverCtx, daemon.MetricServer)
		}()
	}

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Startup complete.\n")
	return
}

// Blocking daemon waiter
func (daemon *Daemon) Run() {
	<-daemon.ctx.Done()
}

// Gracefully shutdown pipeline worker threads (errors are printed to program log buffer)
func (daemon *Daemon) Shutdown() {
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSRecv)
	defer func() { daemon.ctx = logctx.RemoveLastCtxTag(daemon.ctx) }()

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"Daemon shutdown started...\n")

	// Stop metric server
	if daemon.cfg.MetricQueryServerEnabled && daemon.MetricServer != nil {
		err := daemon.MetricServer.Shutdown(daemon.ctx)
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"metric HTTP server did not shutdown gracefully: %v\n", err)
		}
	}

	// Stop listener instances (sockets drained before close)
	if daemon.Mgrs.Input != nil {
		daemon.Mgrs.Input.RemoveAll()
	}

	// Stop processor instances once their inbox has drained
	if daemon.Mgrs.Proc != nil {
		success, last := atomics.WaitUntilZero(&daemon.Mgrs.Proc.Inbox.Metrics.Depth, global.QueueDrainTimeout)
		if !success {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"processor inbox queue did not empty in time: dropped %d messages\n", last)
		}
		daemon.Mgrs.Proc.RemoveAll()
	}

	// Stop output worker once its queue has drained
	if daemon.Mgrs.Output != nil {
		success, last := atomics.WaitUntilZero(&daemon.Mgrs.Output.Queue.Metrics.Depth, global.QueueDrainTimeout)
		if !success {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"output queue did not empty in time: dropped %d messages\n", last)
		}
		daemon.Mgrs.Output.RemoveInstance()
	}

	// Stop the run loop after instances are drained and stopped
	daemon.cancel()

	// Wait for all workers to finish (with timeout)
	done := make(chan struct{})
	go func() {
		daemon.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
			"Daemon shutdown completed successfully\n")
	case <-time.After(global.ReceiveShutdownTimeout):
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
			"Timeout: receive daemon did not shutdown within %v seconds",
			global.ReceiveShutdownTimeout.Seconds())
		return
	}
}

// Handle exit requests and initiate graceful shutdown on signal reception
func signalHandler(daemon *Daemon) {
	// Channel for handling interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigChan

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"Received signal: %v\n", sig)

	// Start daemon shutdown
	daemon.Shutdown()
	logger := logctx.GetLogger(daemon.ctx)
	logger.Wake()
	logger.Wait()
	os.Exit(0)
}
