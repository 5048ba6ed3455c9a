// Package engine implements the control loop (§4.E): the single-threaded
// cooperative scheduler that reloads config, reconciles tracked windows
// against the platform backend, applies the active layout strategy,
// rebalances workspace overflow, drains gesture input, handles
// focus/maximize/minimize transitions, drains keymap input, and prunes
// stale windows — in that fixed order, once per tick. IPC is not a tick
// phase: the ipc.Handler methods in ipc_handler.go run when the IPC
// transport's server calls them.
//
// Grounded on the teacher's internal/desktop/manager.go Start/Stop/
// monitorDesktop shape: a mutex-guarded running flag, a stop channel, and
// a ticker-driven loop goroutine, generalized from desktop-monitoring
// telemetry to the window-manager tick defined here.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gridflux/gridflux/internal/collections"
	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/ipc"
	"github.com/gridflux/gridflux/internal/metrics"
	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/platform"
	"github.com/gridflux/gridflux/internal/workspace"
	"github.com/gridflux/gridflux/pkg/layout"
)

// TickInterval is the approximately-33ms sleep between ticks (§4.E).
const TickInterval = 33 * time.Millisecond

// Engine owns every piece of mutable state the control loop touches:
// the window list, the workspace manager, the config snapshot, and the
// bookkeeping fields handle-events needs across ticks. Nothing outside
// the loop goroutine may read or mutate it (§5 Shared resources).
type Engine struct {
	logger  *logrus.Logger
	tracer  trace.Tracer
	backend platform.Backend
	loader  *config.Loader
	metrics *metrics.Metrics
	notify  *ipc.Notifier

	strategy layout.Strategy

	windows    *collections.WindowList
	workspaces *workspace.Manager
	cfg        *model.Config

	lastActiveWindow    model.WindowId
	lastActiveWorkspace model.WorkspaceId
	dockHidden          bool

	pruneLimiter *rate.Limiter

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// Options bundles Engine's constructor dependencies.
type Options struct {
	Logger       *logrus.Logger
	Backend      platform.Backend
	ConfigLoader *config.Loader
	Metrics      *metrics.Metrics
	Notifier     *ipc.Notifier
	LayoutName   string
}

// New constructs an Engine. The caller must call Run to start ticking.
func New(opts Options) (*Engine, error) {
	cfg, err := opts.ConfigLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("engine: load config: %w", err)
	}

	e := &Engine{
		logger:       opts.Logger,
		tracer:       otel.Tracer("engine.Engine"),
		backend:      opts.Backend,
		loader:       opts.ConfigLoader,
		metrics:      opts.Metrics,
		notify:       opts.Notifier,
		strategy:     layout.ByName(opts.LayoutName),
		windows:      collections.NewWindowList(),
		workspaces:   workspace.New(opts.Logger),
		cfg:          cfg,
		pruneLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		stopCh:       make(chan struct{}),
	}

	e.workspaces.Ensure(context.Background(), model.FirstWorkspaceId, cfg.MaxWindowsPerWorkspace)
	e.lastActiveWorkspace = model.FirstWorkspaceId
	return e, nil
}

// Run initializes the backend and runs the tick loop until ctx is
// cancelled. It is the analogue of the teacher's Manager.Start, but
// blocking: the caller runs it in its own goroutine or as main().
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("engine: already running")
	}
	e.running = true
	e.mu.Unlock()

	if err := e.backend.Init(ctx); err != nil {
		return fmt.Errorf("engine: backend init: %w", err)
	}
	if err := e.backend.KeymapInit(ctx); err != nil {
		e.logger.WithError(err).Warn("keymap init failed, continuing without hotkeys")
	}
	if err := e.backend.GestureInit(ctx); err != nil {
		e.logger.WithError(err).Warn("gesture init failed, continuing without gesture input")
	}

	e.logger.Info("engine started")
	defer e.teardown(ctx)

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.stopCh:
			return nil
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// Stop requests the loop to exit at the next tick boundary.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	close(e.stopCh)
	e.running = false
}

func (e *Engine) teardown(ctx context.Context) {
	e.logger.Info("engine tearing down")
	if e.dockHidden {
		if err := e.backend.DockRestore(ctx); err != nil {
			e.logger.WithError(err).Warn("dock restore failed during teardown")
		}
	}
	if err := e.backend.GestureCleanup(ctx); err != nil {
		e.logger.WithError(err).Warn("gesture cleanup failed")
	}
	if err := e.backend.KeymapCleanup(ctx); err != nil {
		e.logger.WithError(err).Warn("keymap cleanup failed")
	}
	if err := e.backend.Cleanup(ctx); err != nil {
		e.logger.WithError(err).Warn("backend cleanup failed")
	}
}

// tick runs exactly one iteration of §4.E's ordered subphases.
func (e *Engine) tick(ctx context.Context) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "engine.Engine.tick")
	defer span.End()

	e.reloadConfig(ctx)
	e.watch(ctx)
	e.applyLayout(ctx)
	e.rebalanceOverflow(ctx)
	e.drainGesture(ctx)
	e.handleEvents(ctx)
	e.drainKeymap(ctx)
	// IPC drain is performed by the transport's ServeOne call sites, which
	// invoke Engine's Handler methods directly (§4.E.8) — there is no
	// separate phase function here because the non-blocking accept lives
	// in the transport, not the tick.
	e.prune(ctx)

	if e.metrics != nil {
		e.metrics.TickDuration.Observe(time.Since(start).Seconds())
		e.metrics.WindowsTracked.Set(float64(e.windows.Len()))
		e.metrics.WorkspacesMaterialized.Set(float64(e.workspaces.List().Len()))
	}
}

func (e *Engine) recordBackendFailure(op string) {
	if e.metrics != nil {
		e.metrics.BackendCallFailures.WithLabelValues(op).Inc()
	}
}
