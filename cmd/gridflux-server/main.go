// Command gridflux-server hosts the control loop (§4.E): it wires a
// platform backend, the config loader, the IPC transport, and the
// engine together, then blocks until a shutdown signal arrives.
//
// Grounded on the teacher's cmd/aios-desktop/main.go: a cobra root
// command with viper-bound flags, a logrus JSON logger, an otelhttp-
// wrapped mux.Router for a debug listener, and a signal-driven graceful
// shutdown. The teacher's HTTP API surface (windows/workspaces/settings
// handlers) is replaced by the real IPC transport (§4.G) plus a thin
// health/metrics/notify listener, since GridFlux's actual client
// surface is the Unix socket, not HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/engine"
	"github.com/gridflux/gridflux/internal/ipc"
	"github.com/gridflux/gridflux/internal/metrics"
	"github.com/gridflux/gridflux/internal/platform"
	"github.com/gridflux/gridflux/internal/platform/win32"
	"github.com/gridflux/gridflux/internal/platform/x11"
	"github.com/gridflux/gridflux/pkg/utils"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridflux-server",
		Short: "GridFlux tiling window manager control loop",
		RunE:  run,
	}

	rootCmd.Flags().String("config", "", "config file path (default $XDG_CONFIG_HOME/gridflux/config.json)")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("layout", "bsp", "layout strategy (bsp, grid)")
	rootCmd.Flags().String("debug-addr", "127.0.0.1:8787", "loopback debug HTTP listener address")
	viper.BindPFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger(viper.GetString("log-level"))

	backend, err := newBackend(logger)
	if err != nil {
		return fmt.Errorf("select platform backend: %w", err)
	}

	loader := config.NewLoader(viper.GetString("config"), logger)
	reg := prometheus.NewRegistry()
	mtr := metrics.New(reg)
	notify := ipc.NewNotifier(logger)

	eng, err := engine.New(engine.Options{
		Logger:       logger,
		Backend:      backend,
		ConfigLoader: loader,
		Metrics:      mtr,
		Notifier:     notify,
		LayoutName:   viper.GetString("layout"),
	})
	if err != nil {
		return fmt.Errorf("construct engine: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engineErrCh := make(chan error, 1)
	go func() { engineErrCh <- eng.Run(ctx) }()

	transport, err := ipc.NewUnixTransport(logger)
	if err != nil {
		return fmt.Errorf("bind ipc socket: %w", err)
	}
	defer transport.Close()

	dispatcher := ipc.NewDispatcher(eng, logger)
	go acceptLoop(ctx, transport, dispatcher, logger)

	debugServer := newDebugServer(viper.GetString("debug-addr"), reg, notify, logger)
	go func() {
		logger.WithField("addr", debugServer.Addr).Info("debug listener started")
		if err := debugServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("debug listener failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"version": Version, "commit": Commit, "socket": ipc.SocketPath(),
	}).Info("gridflux-server started")

	waitForShutdown(logger)

	cancel()
	eng.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := debugServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("debug listener shutdown failed")
	}

	select {
	case <-engineErrCh:
	case <-time.After(5 * time.Second):
		logger.Warn("engine did not stop within grace period")
	}

	logger.Info("gridflux-server shut down")
	return nil
}

// acceptLoop runs the IPC transport's non-blocking accept on a short
// poll interval, serving each connection inline — the dispatcher is
// single-threaded, matching the control loop's own cooperative model (§5).
func acceptLoop(ctx context.Context, transport *ipc.UnixTransport, d *ipc.Dispatcher, logger *logrus.Logger) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			conn, ok, err := transport.Accept()
			if err != nil {
				logger.WithError(err).Warn("ipc accept failed")
				continue
			}
			if !ok {
				continue
			}
			ipc.ServeOne(conn, d)
		}
	}
}

func newBackend(logger *logrus.Logger) (platform.Backend, error) {
	variant, err := platform.Detect(logger)
	if err != nil {
		return nil, err
	}
	switch variant {
	case platform.VariantWin32:
		return win32.New(logger), nil
	default:
		return x11.New(logger), nil
	}
}

func newDebugServer(addr string, reg *prometheus.Registry, notify *ipc.Notifier, logger *logrus.Logger) *http.Server {
	router := mux.NewRouter()
	router.Use(otelhttp.NewMiddleware("gridflux-server"))
	router.Use(utils.RecoveryMiddleware(logger))
	router.Use(utils.LoggingMiddleware(logger))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.Handle("/ws", notify).Methods(http.MethodGet)

	return &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func waitForShutdown(logger *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	return logger
}
