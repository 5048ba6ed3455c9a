//go:build !windows

// Package x11 implements platform.Backend against a live X11 display
// using xgb's core protocol bindings plus xgbutil's EWMH/ICCCM helpers
// for workspace, state, and window-type queries — grounded on
// funkycode-marwind's wm.go (raw xgb/xproto connection + event handling)
// and BurntSushi/xgbutil's ewmh.go (the atom helper surface).
//
// Border, dock, gesture, and keymap handling each live in their own file
// here, mirroring the original C implementation's one-translation-unit-
// per-concern layout (src/platform/unix/{border,dock,gesture,keymap}.c).
package x11

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/rules"
)

// Backend implements platform.Backend for X11/EWMH desktops.
type Backend struct {
	xu     *xgbutil.XUtil
	logger *logrus.Logger
	tracer trace.Tracer

	keymap  keymapState
	gesture gestureState
	borders map[model.WindowId]xproto.Window
}

// New constructs an unconnected backend; call Init to establish the
// display connection.
func New(logger *logrus.Logger) *Backend {
	return &Backend{
		logger:  logger,
		tracer:  otel.Tracer("platform.x11.Backend"),
		borders: make(map[model.WindowId]xproto.Window),
	}
}

// Init implements platform.Backend.
func (b *Backend) Init(ctx context.Context) error {
	_, span := b.tracer.Start(ctx, "x11.Backend.Init")
	defer span.End()

	xu, err := xgbutil.NewConn()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrDisplayConnection, err)
	}
	b.xu = xu

	if err := ewmh.SupportedSet(xu, []string{
		"_NET_CLIENT_LIST", "_NET_CURRENT_DESKTOP", "_NET_NUMBER_OF_DESKTOPS",
		"_NET_ACTIVE_WINDOW", "_NET_WM_STATE", "_NET_WM_WINDOW_TYPE",
		"_NET_WORKAREA",
	}); err != nil {
		b.logger.WithError(err).Warn("failed to advertise EWMH support, continuing without it")
	}
	return nil
}

// Cleanup implements platform.Backend.
func (b *Backend) Cleanup(ctx context.Context) error {
	_, span := b.tracer.Start(ctx, "x11.Backend.Cleanup")
	defer span.End()

	if b.xu != nil && b.xu.Conn() != nil {
		b.xu.Conn().Close()
	}
	return nil
}

// EnumerateWindows implements platform.Backend. ws is the backend's
// 0-based desktop number; the caller (internal/engine) performs the
// 1-based conversion at this exact boundary.
func (b *Backend) EnumerateWindows(ctx context.Context, ws int32) ([]model.WindowInfo, error) {
	_, span := b.tracer.Start(ctx, "x11.Backend.EnumerateWindows")
	defer span.End()

	ids, err := ewmh.ClientListGet(b.xu)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}

	out := make([]model.WindowInfo, 0, len(ids))
	for _, win := range ids {
		desktop, err := ewmh.WmDesktopGet(b.xu, win)
		if err != nil {
			continue
		}
		if ws >= 0 && int32(desktop) != ws {
			continue
		}

		geom, err := b.GetGeometry(ctx, model.WindowId(win))
		if err != nil {
			continue
		}
		name, _ := ewmh.WmNameGet(b.xu, win)
		class := b.windowClass(win)

		out = append(out, model.WindowInfo{
			ID:        model.WindowId(win),
			Geometry:  geom,
			Name:      name,
			Class:     class,
			Flags: model.WindowFlags{
				IsValid:     true,
				IsMinimized: b.IsMinimized(ctx, model.WindowId(win)),
				IsMaximized: b.IsMaximized(ctx, model.WindowId(win)),
			},
		})
	}
	return out, nil
}

func (b *Backend) windowClass(win xproto.Window) string {
	cls, err := icccm.WmClassGet(b.xu, win)
	if err != nil || cls == nil {
		return ""
	}
	return cls.Class
}

// SetGeometry implements platform.Backend.
func (b *Backend) SetGeometry(ctx context.Context, id model.WindowId, r model.Rect, flags model.GeometryFlags, cfg *model.Config) error {
	_, span := b.tracer.Start(ctx, "x11.Backend.SetGeometry")
	defer span.End()

	var mask uint16
	var values []uint32
	if flags&model.ChangeX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(r.X))
	}
	if flags&model.ChangeY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(r.Y))
	}
	if flags&model.ChangeW != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, r.W)
	}
	if flags&model.ChangeH != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, r.H)
	}

	err := xproto.ConfigureWindowChecked(b.xu.Conn(), xproto.Window(id), mask, values).Check()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	return nil
}

// GetGeometry implements platform.Backend.
func (b *Backend) GetGeometry(ctx context.Context, id model.WindowId) (model.Rect, error) {
	reply, err := xproto.GetGeometry(b.xu.Conn(), xproto.Drawable(id)).Reply()
	if err != nil {
		return model.Rect{}, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	return model.Rect{X: int32(reply.X), Y: int32(reply.Y), W: uint32(reply.Width), H: uint32(reply.Height)}, nil
}

// Maximize implements platform.Backend via a _NET_WM_STATE client message.
func (b *Backend) Maximize(ctx context.Context, id model.WindowId) error {
	return ewmh.WmStateReq(b.xu, xproto.Window(id), ewmh.StateAdd,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
}

// Unmaximize implements platform.Backend.
func (b *Backend) Unmaximize(ctx context.Context, id model.WindowId) error {
	return ewmh.WmStateReq(b.xu, xproto.Window(id), ewmh.StateRemove,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ")
}

// Minimize implements platform.Backend via _NET_WM_STATE_HIDDEN.
func (b *Backend) Minimize(ctx context.Context, id model.WindowId) error {
	return ewmh.WmStateReq(b.xu, xproto.Window(id), ewmh.StateAdd, "_NET_WM_STATE_HIDDEN")
}

// Unminimize implements platform.Backend.
func (b *Backend) Unminimize(ctx context.Context, id model.WindowId) error {
	if err := ewmh.WmStateReq(b.xu, xproto.Window(id), ewmh.StateRemove, "_NET_WM_STATE_HIDDEN"); err != nil {
		return err
	}
	return xproto.MapWindowChecked(b.xu.Conn(), xproto.Window(id)).Check()
}

// GetCurrentWorkspace implements platform.Backend, returning the
// backend's 0-based current desktop.
func (b *Backend) GetCurrentWorkspace(ctx context.Context) (int32, error) {
	d, err := ewmh.CurrentDesktopGet(b.xu)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	return int32(d), nil
}

// GetWorkspaceCount implements platform.Backend.
func (b *Backend) GetWorkspaceCount(ctx context.Context) (uint32, error) {
	n, err := ewmh.NumberOfDesktopsGet(b.xu)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	return uint32(n), nil
}

// CreateWorkspace implements platform.Backend by incrementing the EWMH
// desktop count.
func (b *Backend) CreateWorkspace(ctx context.Context) error {
	n, err := ewmh.NumberOfDesktopsGet(b.xu)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	return ewmh.NumberOfDesktopsSet(b.xu, n+1)
}

// RemoveWorkspace implements platform.Backend.
func (b *Backend) RemoveWorkspace(ctx context.Context, ws int32) error {
	n, err := ewmh.NumberOfDesktopsGet(b.xu)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	if n == 0 {
		return nil
	}
	return ewmh.NumberOfDesktopsSet(b.xu, n-1)
}

// GetScreenBounds implements platform.Backend, returning the first
// _NET_WORKAREA rectangle (work-area excluding struts).
func (b *Backend) GetScreenBounds(ctx context.Context) (model.Rect, error) {
	areas, err := ewmh.WorkareaGet(b.xu)
	if err != nil || len(areas) == 0 {
		screen := b.xu.Screen()
		return model.Rect{W: uint32(screen.WidthInPixels), H: uint32(screen.HeightInPixels)}, nil
	}
	a := areas[0]
	return model.Rect{X: int32(a.X), Y: int32(a.Y), W: uint32(a.Width), H: uint32(a.Height)}, nil
}

// IsValid implements platform.Backend.
func (b *Backend) IsValid(ctx context.Context, id model.WindowId) bool {
	_, err := xproto.GetWindowAttributes(b.xu.Conn(), xproto.Window(id)).Reply()
	return err == nil
}

// IsExcluded implements platform.Backend by delegating to rules.IsExcluded.
func (b *Backend) IsExcluded(ctx context.Context, id model.WindowId) bool {
	win := xproto.Window(id)
	class := b.windowClass(win)
	types, _ := ewmh.WmWindowTypeGet(b.xu, win)
	states, _ := ewmh.WmStateGet(b.xu, win)

	cand := rules.Candidate{
		Class:      class,
		Type:       mapWindowType(types),
		State:      mapWindowState(states),
		Fullscreen: containsAtom(states, "_NET_WM_STATE_FULLSCREEN"),
	}
	return rules.IsExcluded(cand)
}

// IsHidden implements platform.Backend — true if the window is tray-
// minimized to the point of not being reported by _NET_CLIENT_LIST.
func (b *Backend) IsHidden(ctx context.Context, id model.WindowId) bool {
	clients, err := ewmh.ClientListGet(b.xu)
	if err != nil {
		return false
	}
	for _, win := range clients {
		if win == xproto.Window(id) {
			return false
		}
	}
	return true
}

// IsMinimized implements platform.Backend.
func (b *Backend) IsMinimized(ctx context.Context, id model.WindowId) bool {
	states, _ := ewmh.WmStateGet(b.xu, xproto.Window(id))
	return containsAtom(states, "_NET_WM_STATE_HIDDEN")
}

// IsMaximized implements platform.Backend.
func (b *Backend) IsMaximized(ctx context.Context, id model.WindowId) bool {
	states, _ := ewmh.WmStateGet(b.xu, xproto.Window(id))
	return containsAtom(states, "_NET_WM_STATE_MAXIMIZED_VERT") && containsAtom(states, "_NET_WM_STATE_MAXIMIZED_HORZ")
}

// IsFullscreen implements platform.Backend.
func (b *Backend) IsFullscreen(ctx context.Context, id model.WindowId) bool {
	states, _ := ewmh.WmStateGet(b.xu, xproto.Window(id))
	return containsAtom(states, "_NET_WM_STATE_FULLSCREEN")
}

// GetFocused implements platform.Backend.
func (b *Backend) GetFocused(ctx context.Context) (model.WindowId, bool) {
	win, err := ewmh.ActiveWindowGet(b.xu)
	if err != nil || win == 0 {
		return 0, false
	}
	return model.WindowId(win), true
}

// GetWindowName implements platform.Backend.
func (b *Backend) GetWindowName(ctx context.Context, id model.WindowId) (string, error) {
	name, err := ewmh.WmNameGet(b.xu, xproto.Window(id))
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	return name, nil
}

// GetWindowClass implements platform.Backend.
func (b *Backend) GetWindowClass(ctx context.Context, id model.WindowId) (string, error) {
	return b.windowClass(xproto.Window(id)), nil
}

func containsAtom(atoms []string, name string) bool {
	for _, a := range atoms {
		if a == name {
			return true
		}
	}
	return false
}

func mapWindowType(types []string) rules.WindowType {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_DOCK":
			return rules.TypeDock
		case "_NET_WM_WINDOW_TYPE_DESKTOP":
			return rules.TypeDesktop
		case "_NET_WM_WINDOW_TYPE_TOOLBAR":
			return rules.TypeToolbar
		case "_NET_WM_WINDOW_TYPE_MENU":
			return rules.TypeMenu
		case "_NET_WM_WINDOW_TYPE_SPLASH":
			return rules.TypeSplash
		case "_NET_WM_WINDOW_TYPE_DROPDOWN_MENU":
			return rules.TypeDropdownMenu
		case "_NET_WM_WINDOW_TYPE_POPUP_MENU":
			return rules.TypePopupMenu
		case "_NET_WM_WINDOW_TYPE_TOOLTIP":
			return rules.TypeTooltip
		case "_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return rules.TypeNotification
		case "_NET_WM_WINDOW_TYPE_UTILITY":
			return rules.TypeUtility
		case "_NET_WM_WINDOW_TYPE_COMBO":
			return rules.TypeCombo
		}
	}
	return rules.TypeNormal
}

func mapWindowState(states []string) rules.WindowState {
	return rules.WindowState{
		SkipTaskbar: containsAtom(states, "_NET_WM_STATE_SKIP_TASKBAR"),
		Modal:       containsAtom(states, "_NET_WM_STATE_MODAL"),
		Above:       containsAtom(states, "_NET_WM_STATE_ABOVE"),
	}
}
