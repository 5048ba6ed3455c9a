//go:build windows

// Package win32 implements platform.Backend against the Win32 desktop
// using golang.org/x/sys/windows for syscalls (EnumWindows, SetWindowPos,
// ShowWindow). It holds no IPC code: no named-pipe transport exists, and
// internal/ipc's Unix-socket transport builds only for non-Windows
// targets. Grounded on
// the teacher's golang.org/x/sys dependency; there is no GridFlux-
// specific Win32 reference in the example pack, so the shape below
// follows the idiomatic lazy-DLL-procedure pattern x/sys/windows
// consumers use throughout the ecosystem.
package win32

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sys/windows"

	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/rules"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows         = user32.NewProc("EnumWindows")
	procGetWindowTextW      = user32.NewProc("GetWindowTextW")
	procGetClassNameW       = user32.NewProc("GetClassNameW")
	procIsWindowVisible     = user32.NewProc("IsWindowVisible")
	procIsIconic            = user32.NewProc("IsIconic")
	procIsZoomed            = user32.NewProc("IsZoomed")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
	procShowWindow          = user32.NewProc("ShowWindow")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
	procGetWindowRect       = user32.NewProc("GetWindowRect")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procMonitorFromWindow   = user32.NewProc("MonitorFromWindow")
)

const (
	swRestore  = 9
	swMinimize = 6
	swMaximize = 3

	swpNoZOrder = 0x0004
)

// Backend implements platform.Backend for Windows desktops.
type Backend struct {
	logger *logrus.Logger
	tracer trace.Tracer

	keymap  keymapState
	gesture gestureState
	borders map[model.WindowId]struct{}
}

// New constructs an unconnected backend.
func New(logger *logrus.Logger) *Backend {
	return &Backend{
		logger:  logger,
		tracer:  otel.Tracer("platform.win32.Backend"),
		borders: make(map[model.WindowId]struct{}),
	}
}

// Init implements platform.Backend; Win32 requires no explicit display
// connection.
func (b *Backend) Init(ctx context.Context) error { return nil }

// Cleanup implements platform.Backend.
func (b *Backend) Cleanup(ctx context.Context) error { return nil }

// EnumerateWindows implements platform.Backend. Windows has no native
// desktop-per-window concept as rich as EWMH's; ws is honored only
// insofar as GridFlux's own workspace bookkeeping assigns it — every
// visible top-level window is reported and the engine does the rest.
func (b *Backend) EnumerateWindows(ctx context.Context, ws int32) ([]model.WindowInfo, error) {
	_, span := b.tracer.Start(ctx, "win32.Backend.EnumerateWindows")
	defer span.End()

	var out []model.WindowInfo
	cb := windows.NewCallback(func(hwnd windows.Handle, lparam uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd))
		if visible == 0 {
			return 1
		}
		id := model.WindowId(hwnd)
		class := b.windowClass(hwnd)
		name := b.windowName(hwnd)
		geom, _ := b.GetGeometry(ctx, id)

		out = append(out, model.WindowInfo{
			ID:       id,
			Geometry: geom,
			Name:     name,
			Class:    class,
			Flags: model.WindowFlags{
				IsValid:     true,
				IsMinimized: b.IsMinimized(ctx, id),
				IsMaximized: b.IsMaximized(ctx, id),
			},
		})
		return 1
	})

	ret, _, err := procEnumWindows.Call(cb, 0)
	if ret == 0 {
		return nil, fmt.Errorf("%w: EnumWindows: %v", model.ErrPlatformError, err)
	}
	return out, nil
}

func (b *Backend) windowClass(hwnd windows.Handle) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetClassNameW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func (b *Backend) windowName(hwnd windows.Handle) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// SetGeometry implements platform.Backend.
func (b *Backend) SetGeometry(ctx context.Context, id model.WindowId, r model.Rect, flags model.GeometryFlags, cfg *model.Config) error {
	ret, _, err := procSetWindowPos.Call(
		uintptr(id), 0,
		uintptr(r.X), uintptr(r.Y), uintptr(r.W), uintptr(r.H),
		swpNoZOrder,
	)
	if ret == 0 {
		return fmt.Errorf("%w: SetWindowPos: %v", model.ErrPlatformError, err)
	}
	return nil
}

type win32Rect struct{ Left, Top, Right, Bottom int32 }

// GetGeometry implements platform.Backend.
func (b *Backend) GetGeometry(ctx context.Context, id model.WindowId) (model.Rect, error) {
	var r win32Rect
	ret, _, err := procGetWindowRect.Call(uintptr(id), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return model.Rect{}, fmt.Errorf("%w: GetWindowRect: %v", model.ErrPlatformError, err)
	}
	return model.Rect{X: r.Left, Y: r.Top, W: uint32(r.Right - r.Left), H: uint32(r.Bottom - r.Top)}, nil
}

// Maximize implements platform.Backend.
func (b *Backend) Maximize(ctx context.Context, id model.WindowId) error {
	procShowWindow.Call(uintptr(id), swMaximize)
	return nil
}

// Unmaximize implements platform.Backend.
func (b *Backend) Unmaximize(ctx context.Context, id model.WindowId) error {
	procShowWindow.Call(uintptr(id), swRestore)
	return nil
}

// Minimize implements platform.Backend.
func (b *Backend) Minimize(ctx context.Context, id model.WindowId) error {
	procShowWindow.Call(uintptr(id), swMinimize)
	return nil
}

// Unminimize implements platform.Backend.
func (b *Backend) Unminimize(ctx context.Context, id model.WindowId) error {
	procShowWindow.Call(uintptr(id), swRestore)
	return nil
}

// GetCurrentWorkspace implements platform.Backend. Win32 has no native
// virtual-desktop id exposed via this narrow capability set; GridFlux's
// own workspace model is authoritative and this always reports 0.
func (b *Backend) GetCurrentWorkspace(ctx context.Context) (int32, error) { return 0, nil }

// GetWorkspaceCount implements platform.Backend.
func (b *Backend) GetWorkspaceCount(ctx context.Context) (uint32, error) { return 1, nil }

// CreateWorkspace implements platform.Backend; a no-op on Win32, since
// virtual desktops here are purely a GridFlux-side bookkeeping concept.
func (b *Backend) CreateWorkspace(ctx context.Context) error { return nil }

// RemoveWorkspace implements platform.Backend.
func (b *Backend) RemoveWorkspace(ctx context.Context, ws int32) error { return nil }

// GetScreenBounds implements platform.Backend, returning the monitor
// work area (excludes the taskbar) for the monitor nearest the
// foreground window.
func (b *Backend) GetScreenBounds(ctx context.Context) (model.Rect, error) {
	const monitorDefaultToNearest = 0x2
	fg, _, _ := procGetForegroundWindow.Call()
	mon, _, _ := procMonitorFromWindow.Call(fg, monitorDefaultToNearest)
	var mi struct {
		cbSize    uint32
		rcMonitor win32Rect
		rcWork    win32Rect
		dwFlags   uint32
	}
	mi.cbSize = uint32(unsafe.Sizeof(mi))
	ret, _, err := procGetMonitorInfoW.Call(mon, uintptr(unsafe.Pointer(&mi)))
	if ret == 0 {
		return model.Rect{}, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	r := mi.rcWork
	return model.Rect{X: r.Left, Y: r.Top, W: uint32(r.Right - r.Left), H: uint32(r.Bottom - r.Top)}, nil
}

// IsValid implements platform.Backend.
func (b *Backend) IsValid(ctx context.Context, id model.WindowId) bool {
	visible, _, _ := procIsWindowVisible.Call(uintptr(id))
	return visible != 0
}

// IsExcluded implements platform.Backend.
func (b *Backend) IsExcluded(ctx context.Context, id model.WindowId) bool {
	class := b.windowClass(windows.Handle(id))
	return rules.IsExcluded(rules.Candidate{Class: class})
}

// IsHidden implements platform.Backend.
func (b *Backend) IsHidden(ctx context.Context, id model.WindowId) bool {
	return !b.IsValid(ctx, id)
}

// IsMinimized implements platform.Backend.
func (b *Backend) IsMinimized(ctx context.Context, id model.WindowId) bool {
	iconic, _, _ := procIsIconic.Call(uintptr(id))
	return iconic != 0
}

// IsMaximized implements platform.Backend.
func (b *Backend) IsMaximized(ctx context.Context, id model.WindowId) bool {
	zoomed, _, _ := procIsZoomed.Call(uintptr(id))
	return zoomed != 0
}

// IsFullscreen implements platform.Backend — approximated as the
// window's bounds matching its monitor's bounds exactly.
func (b *Backend) IsFullscreen(ctx context.Context, id model.WindowId) bool {
	geom, err := b.GetGeometry(ctx, id)
	if err != nil {
		return false
	}
	mon, _, _ := procMonitorFromWindow.Call(uintptr(id), 0x2) // MONITOR_DEFAULTTONEAREST
	var mi struct {
		cbSize    uint32
		rcMonitor win32Rect
		rcWork    win32Rect
		dwFlags   uint32
	}
	mi.cbSize = uint32(unsafe.Sizeof(mi))
	if ret, _, _ := procGetMonitorInfoW.Call(mon, uintptr(unsafe.Pointer(&mi))); ret == 0 {
		return false
	}
	r := mi.rcMonitor
	return geom == model.Rect{X: r.Left, Y: r.Top, W: uint32(r.Right - r.Left), H: uint32(r.Bottom - r.Top)}
}

// GetFocused implements platform.Backend.
func (b *Backend) GetFocused(ctx context.Context) (model.WindowId, bool) {
	fg, _, _ := procGetForegroundWindow.Call()
	if fg == 0 {
		return 0, false
	}
	return model.WindowId(fg), true
}

// GetWindowName implements platform.Backend.
func (b *Backend) GetWindowName(ctx context.Context, id model.WindowId) (string, error) {
	return b.windowName(windows.Handle(id)), nil
}

// GetWindowClass implements platform.Backend.
func (b *Backend) GetWindowClass(ctx context.Context, id model.WindowId) (string, error) {
	return b.windowClass(windows.Handle(id)), nil
}
