package engine

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/gridflux/gridflux/internal/collections"
	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/workspace"
	"github.com/gridflux/gridflux/pkg/layout"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// newTestEngine builds an Engine without touching disk, mirroring New's
// wiring but with a config snapshot supplied directly by the test.
func newTestEngine(t *testing.T, backend *fakeBackend, cfg *model.Config) *Engine {
	t.Helper()
	e := &Engine{
		logger:       testLogger(),
		tracer:       otel.Tracer("engine.Engine.test"),
		backend:      backend,
		strategy:     layout.ByName(layout.NameBSP),
		windows:      collections.NewWindowList(),
		workspaces:   workspace.New(testLogger()),
		cfg:          cfg,
		pruneLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
		stopCh:       make(chan struct{}),
	}
	e.workspaces.Ensure(context.Background(), model.FirstWorkspaceId, cfg.MaxWindowsPerWorkspace)
	e.lastActiveWorkspace = model.FirstWorkspaceId
	return e
}

func testConfig() *model.Config {
	return &model.Config{
		MaxWindowsPerWorkspace: 3,
		MaxWorkspaces:          32,
		DefaultPadding:         0,
		MinWindowSize:          10,
		BorderColor:            0x00F49D2A,
		EnableBorders:          true,
		LockedWorkspaces:       map[model.WorkspaceId]struct{}{},
		LastModified:           time.Now(),
	}
}

func TestWatchAssignsOverflowToNewWorkspace(t *testing.T) {
	backend := newFakeBackend()
	for i := 1; i <= 4; i++ {
		backend.addWindow(model.WindowId(i), fakeWindow{desktop: 0, valid: true, class: "term"})
	}
	e := newTestEngine(t, backend, testConfig())

	ctx := context.Background()
	e.watch(ctx)
	e.rebalanceOverflow(ctx)

	w1, _ := e.windows.Get(1)
	w2, _ := e.windows.Get(2)
	w3, _ := e.windows.Get(3)
	w4, _ := e.windows.Get(4)

	assert.EqualValues(t, 1, w1.Workspace)
	assert.EqualValues(t, 1, w2.Workspace)
	assert.EqualValues(t, 1, w3.Workspace)
	assert.EqualValues(t, 2, w4.Workspace, "fourth window should overflow to a newly created workspace")

	ws1, _ := e.workspaces.Get(1)
	ws2, _ := e.workspaces.Get(2)
	assert.EqualValues(t, 3, ws1.WindowCount)
	assert.EqualValues(t, 1, ws2.WindowCount)
}

func TestApplyLayoutMatchesBSPReferenceScenario(t *testing.T) {
	backend := newFakeBackend()
	backend.bounds = model.Rect{X: 0, Y: 0, W: 1000, H: 800}
	for i := 1; i <= 3; i++ {
		backend.addWindow(model.WindowId(i), fakeWindow{desktop: 0, valid: true, class: "term"})
	}
	cfg := testConfig()
	e := newTestEngine(t, backend, cfg)

	ctx := context.Background()
	e.watch(ctx)
	e.applyLayout(ctx)

	w1, _ := e.windows.Get(1)
	w2, _ := e.windows.Get(2)
	w3, _ := e.windows.Get(3)

	// The layout receives the workspace's windows in GetByWorkspace order
	// (most recently added first), so window 3 takes the left half.
	assert.Equal(t, model.Rect{X: 500, Y: 400, W: 500, H: 400}, w1.Geometry)
	assert.Equal(t, model.Rect{X: 500, Y: 0, W: 500, H: 400}, w2.Geometry)
	assert.Equal(t, model.Rect{X: 0, Y: 0, W: 500, H: 800}, w3.Geometry)
}

func TestMaximizedWorkspaceSkippedByApplyLayout(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.workspaces.List().Upsert(model.WorkspaceInfo{ID: 1, HasMaximizedState: true, WindowCount: 1, MaxWindows: 3})
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})

	e.applyLayout(context.Background())

	w, _ := e.windows.Get(1)
	assert.Equal(t, model.Rect{}, w.Geometry, "maximized workspace must not be tiled")
}

func TestRuleDirectedPlacementCreatesWorkspace(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(model.WindowId(1), fakeWindow{desktop: 0, valid: true, class: "Firefox"})
	cfg := testConfig()
	cfg.Rules = []model.WindowRule{{Class: "firefox", Workspace: 3}}
	e := newTestEngine(t, backend, cfg)

	e.watch(context.Background())

	w, ok := e.windows.Get(1)
	require.True(t, ok)
	assert.EqualValues(t, 3, w.Workspace)

	_, exists := e.workspaces.Get(3)
	assert.True(t, exists)
}

func TestMoveToLockedWorkspaceFails(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})
	e.workspaces.List().Upsert(model.WorkspaceInfo{ID: 2, IsLocked: true, MaxWindows: 3})

	err := e.Move(1, 2)
	assert.ErrorIs(t, err, model.ErrWorkspaceLocked)

	w, _ := e.windows.Get(1)
	assert.EqualValues(t, 1, w.Workspace, "workspace must be unchanged on a rejected move")
}

func TestMoveToSameWorkspaceIsNoOp(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})

	err := e.Move(1, 1)
	assert.NoError(t, err)
}

func TestMoveMaximizedWindowFails(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true, IsMaximized: true}})

	err := e.Move(1, 2)
	assert.ErrorIs(t, err, model.ErrWorkspaceMaximized)
}

func TestHandleMaximizeTransitionHidesDockAndSetsState(t *testing.T) {
	backend := newFakeBackend()
	backend.addWindow(1, fakeWindow{desktop: 0, valid: true, maximized: true})
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})
	backend.focused = 1
	backend.hasFoc = true

	e.handleEvents(context.Background())

	w, _ := e.windows.Get(1)
	assert.True(t, w.Flags.IsMaximized)
	assert.True(t, backend.dockOn)

	ws, ok := e.workspaces.FirstMaximized()
	require.True(t, ok)
	assert.EqualValues(t, w.Workspace, ws)
}

func TestWorkspaceSwitchMinimizesOthers(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.workspaces.Ensure(context.Background(), 2, 3)
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})
	e.windows.Upsert(model.WindowInfo{ID: 2, Workspace: 2, Flags: model.WindowFlags{IsValid: true}})
	backend.addWindow(1, fakeWindow{valid: true})
	backend.addWindow(2, fakeWindow{valid: true})
	backend.focused = 2
	backend.hasFoc = true
	e.lastActiveWindow = 1
	e.lastActiveWorkspace = 1

	e.handleEvents(context.Background())

	w1, _ := e.windows.Get(1)
	w2, _ := e.windows.Get(2)
	assert.True(t, w1.Flags.IsMinimized)
	assert.False(t, w2.Flags.IsMinimized)
	assert.EqualValues(t, 2, e.lastActiveWorkspace)
}

func TestPruneRemovesInvalidWindows(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})
	backend.addWindow(1, fakeWindow{valid: false})

	e.prune(context.Background())

	_, ok := e.windows.Get(1)
	assert.False(t, ok)
}

func TestReloadConfigIsNoOpWhenFileUnchanged(t *testing.T) {
	dir := t.TempDir()
	loader := config.NewLoader(dir+"/config.json", testLogger())
	cfg, err := loader.Load()
	require.NoError(t, err)

	backend := newFakeBackend()
	e := newTestEngine(t, backend, cfg)
	e.loader = loader
	before := *e.cfg

	e.reloadConfig(context.Background())
	e.reloadConfig(context.Background())

	assert.Equal(t, before.MaxWindowsPerWorkspace, e.cfg.MaxWindowsPerWorkspace)
	assert.Equal(t, before.EnableBorders, e.cfg.EnableBorders)
}

func TestGestureSwipeCyclesMaximizedWindows(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 2, Flags: model.WindowFlags{IsValid: true, IsMaximized: true}})
	e.windows.Upsert(model.WindowInfo{ID: 2, Workspace: 2, Flags: model.WindowFlags{IsValid: true, IsMaximized: true}})
	backend.addWindow(1, fakeWindow{valid: true, maximized: true})
	backend.addWindow(2, fakeWindow{valid: true, maximized: true})
	backend.focused = 1
	backend.hasFoc = true
	backend.gestureQueue = []model.GestureEvent{
		{Type: model.GestureSwipeEnd, Fingers: 3, TotalDx: 250},
	}

	e.drainGesture(context.Background())

	w1, _ := e.windows.Get(1)
	w2, _ := e.windows.Get(2)
	assert.True(t, w1.Flags.IsMinimized)
	assert.False(t, w2.Flags.IsMinimized)
}

func TestGestureSwipeBelowThresholdIgnored(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.windows.Upsert(model.WindowInfo{ID: 1, Workspace: 2, Flags: model.WindowFlags{IsValid: true, IsMaximized: true}})
	e.windows.Upsert(model.WindowInfo{ID: 2, Workspace: 2, Flags: model.WindowFlags{IsValid: true, IsMaximized: true}})
	backend.focused = 1
	backend.hasFoc = true
	backend.gestureQueue = []model.GestureEvent{
		{Type: model.GestureSwipeEnd, Fingers: 3, TotalDx: 50},
	}

	e.drainGesture(context.Background())

	w1, _ := e.windows.Get(1)
	assert.False(t, w1.Flags.IsMinimized)
}

func TestKeymapDrainCyclesWorkspaceForward(t *testing.T) {
	backend := newFakeBackend()
	e := newTestEngine(t, backend, testConfig())
	e.workspaces.Ensure(context.Background(), 3, 3)
	backend.keymapQueue = []model.KeyAction{model.KeyActionWorkspaceNext}
	e.lastActiveWorkspace = 1

	e.drainKeymap(context.Background())

	assert.EqualValues(t, 2, e.lastActiveWorkspace)
}
