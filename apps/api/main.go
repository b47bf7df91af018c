package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/darasa/apps/api/di"
	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/session"
)

func main() {
	c := di.New()
	if err := c.Invoke(run); err != nil {
		log.Fatal(err)
	}
}

func run(conf *core.Config, logger core.Logger, sessLogger di.SessionLoggerParam, svc *session.Service, server *echoapi.Server) {
	defer flushLogs(logger, sessLogger.Logger)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus metrics of the session registry.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("sessions", expvar.Func(func() interface{} {
		n, _ := svc.Count(ctx)
		return n
	}))

	http.Handle("/metrics", promhttp.HandlerFor(newMetricsRegistry(ctx, svc), promhttp.HandlerOpts{}))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Session Janitor

	go pruneIdleSessions(ctx, svc, conf.Server.SessionTTL, conf.Server.PruneInterval, sessLogger.Logger)

	// =========================================================================
	// Start API Service

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		sctx, scancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer scancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(sctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// pruneIdleSessions forgets sessions idle for longer than `ttl`, every `interval`, until ctx is done.
func pruneIdleSessions(ctx context.Context, svc *session.Service, ttl, interval time.Duration, logger core.Logger) {
	if interval <= 0 {
		logger.Warn(fmt.Sprintf("session janitor disabled: prune interval is %v", interval))
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PruneIdle(ctx, ttl)
			if err != nil {
				logger.Error("pruning idle sessions", err)
				continue
			}
			if n > 0 {
				prunedSessions.Add(float64(n))
				logger.Info(fmt.Sprintf("pruned %d idle session(s)", n))
			}
		}
	}
}

// flushLogs sends the queued Rollbar items and syncs the console loggers.
func flushLogs(loggers ...core.Logger) {
	for _, l := range loggers {
		_ = l.Sync() // syncing stdout fails on most terminals
	}
}
