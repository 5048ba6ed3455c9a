package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// fakeBackend is a minimal in-memory platform.Backend stand-in driven
// entirely by test setup — no real display connection. It lets engine
// tests exercise the tick phases deterministically.
type fakeBackend struct {
	windows map[model.WindowId]*fakeWindow
	order   []model.WindowId
	bounds  model.Rect
	focused model.WindowId
	hasFoc  bool
	dockOn  bool

	workspaceCount uint32

	gestureQueue []model.GestureEvent
	keymapQueue  []model.KeyAction
}

type fakeWindow struct {
	desktop    int32 // 0-based, as reported by the backend
	class      string
	valid      bool
	excluded   bool
	hidden     bool
	minimized  bool
	maximized  bool
	fullscreen bool
	geom       model.Rect
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		windows:        make(map[model.WindowId]*fakeWindow),
		bounds:         model.Rect{W: 1000, H: 800},
		workspaceCount: 1,
	}
}

func (f *fakeBackend) addWindow(id model.WindowId, w fakeWindow) {
	f.windows[id] = &w
	f.order = append(f.order, id)
}

func (f *fakeBackend) Init(ctx context.Context) error    { return nil }
func (f *fakeBackend) Cleanup(ctx context.Context) error { return nil }

func (f *fakeBackend) EnumerateWindows(ctx context.Context, ws int32) ([]model.WindowInfo, error) {
	out := make([]model.WindowInfo, 0)
	for _, id := range f.order {
		w := f.windows[id]
		if w.desktop != ws {
			continue
		}
		out = append(out, model.WindowInfo{
			ID:       id,
			Geometry: w.geom,
			Class:    w.class,
			Flags: model.WindowFlags{
				IsValid:     w.valid,
				IsMinimized: w.minimized,
				IsMaximized: w.maximized,
			},
		})
	}
	return out, nil
}

func (f *fakeBackend) SetGeometry(ctx context.Context, id model.WindowId, r model.Rect, flags model.GeometryFlags, cfg *model.Config) error {
	if w, ok := f.windows[id]; ok {
		w.geom = r
	}
	return nil
}

func (f *fakeBackend) GetGeometry(ctx context.Context, id model.WindowId) (model.Rect, error) {
	if w, ok := f.windows[id]; ok {
		return w.geom, nil
	}
	return model.Rect{}, model.ErrWindowNotFound
}

func (f *fakeBackend) Maximize(ctx context.Context, id model.WindowId) error {
	if w, ok := f.windows[id]; ok {
		w.maximized = true
	}
	return nil
}

func (f *fakeBackend) Unmaximize(ctx context.Context, id model.WindowId) error {
	if w, ok := f.windows[id]; ok {
		w.maximized = false
	}
	return nil
}

func (f *fakeBackend) Minimize(ctx context.Context, id model.WindowId) error {
	if w, ok := f.windows[id]; ok {
		w.minimized = true
	}
	return nil
}

func (f *fakeBackend) Unminimize(ctx context.Context, id model.WindowId) error {
	if w, ok := f.windows[id]; ok {
		w.minimized = false
	}
	return nil
}

func (f *fakeBackend) GetCurrentWorkspace(ctx context.Context) (int32, error) { return 0, nil }
func (f *fakeBackend) GetWorkspaceCount(ctx context.Context) (uint32, error) {
	return f.workspaceCount, nil
}
func (f *fakeBackend) CreateWorkspace(ctx context.Context) error {
	f.workspaceCount++
	return nil
}
func (f *fakeBackend) RemoveWorkspace(ctx context.Context, ws int32) error {
	if f.workspaceCount > 0 {
		f.workspaceCount--
	}
	return nil
}

func (f *fakeBackend) GetScreenBounds(ctx context.Context) (model.Rect, error) {
	return f.bounds, nil
}

func (f *fakeBackend) IsValid(ctx context.Context, id model.WindowId) bool {
	w, ok := f.windows[id]
	return ok && w.valid
}
func (f *fakeBackend) IsExcluded(ctx context.Context, id model.WindowId) bool {
	w, ok := f.windows[id]
	return ok && w.excluded
}
func (f *fakeBackend) IsHidden(ctx context.Context, id model.WindowId) bool {
	w, ok := f.windows[id]
	return ok && w.hidden
}
func (f *fakeBackend) IsMinimized(ctx context.Context, id model.WindowId) bool {
	w, ok := f.windows[id]
	return ok && w.minimized
}
func (f *fakeBackend) IsMaximized(ctx context.Context, id model.WindowId) bool {
	w, ok := f.windows[id]
	return ok && w.maximized
}
func (f *fakeBackend) IsFullscreen(ctx context.Context, id model.WindowId) bool {
	w, ok := f.windows[id]
	return ok && w.fullscreen
}

func (f *fakeBackend) GetFocused(ctx context.Context) (model.WindowId, bool) {
	return f.focused, f.hasFoc
}

func (f *fakeBackend) GetWindowName(ctx context.Context, id model.WindowId) (string, error) {
	return "", nil
}
func (f *fakeBackend) GetWindowClass(ctx context.Context, id model.WindowId) (string, error) {
	if w, ok := f.windows[id]; ok {
		return w.class, nil
	}
	return "", nil
}

func (f *fakeBackend) DockHide(ctx context.Context) error    { f.dockOn = true; return nil }
func (f *fakeBackend) DockRestore(ctx context.Context) error { f.dockOn = false; return nil }

func (f *fakeBackend) BorderAdd(ctx context.Context, id model.WindowId, colorRGB, thickness uint32) error {
	return nil
}
func (f *fakeBackend) BorderRemove(ctx context.Context, id model.WindowId) error { return nil }
func (f *fakeBackend) BorderUpdate(ctx context.Context, cfg *model.Config) error { return nil }
func (f *fakeBackend) BorderCleanup(ctx context.Context) error                  { return nil }

func (f *fakeBackend) KeymapInit(ctx context.Context) error    { return nil }
func (f *fakeBackend) KeymapCleanup(ctx context.Context) error { return nil }
func (f *fakeBackend) KeymapPoll(ctx context.Context) (model.KeyAction, bool) {
	if len(f.keymapQueue) == 0 {
		return model.KeyActionNone, false
	}
	next := f.keymapQueue[0]
	f.keymapQueue = f.keymapQueue[1:]
	return next, true
}

func (f *fakeBackend) GestureInit(ctx context.Context) error    { return nil }
func (f *fakeBackend) GestureCleanup(ctx context.Context) error { return nil }
func (f *fakeBackend) GesturePoll(ctx context.Context) (model.GestureEvent, bool) {
	if len(f.gestureQueue) == 0 {
		return model.GestureEvent{}, false
	}
	next := f.gestureQueue[0]
	f.gestureQueue = f.gestureQueue[1:]
	return next, true
}
