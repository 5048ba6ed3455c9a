// Package platform defines the capability set the engine consumes (§6.1)
// without knowing which concrete windowing system backs it. The core
// imports only this package; internal/platform/x11 and
// internal/platform/win32 provide the concrete implementations, selected
// by Detect at startup.
package platform

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// Backend is the typed capability object the core calls into. Every
// operation is fallible unless its doc comment says otherwise; a failing
// call is logged and swallowed by the caller within a tick (§7) — Backend
// implementations must not panic.
type Backend interface {
	// Init establishes the display connection. Cleanup tears it down.
	Init(ctx context.Context) error
	Cleanup(ctx context.Context) error

	// EnumerateWindows lists windows on the backend's 0-based workspace
	// ws. The engine is responsible for the 1-based/0-based conversion
	// at this exact boundary (§ Design Notes, off-by-one convention).
	EnumerateWindows(ctx context.Context, ws int32) ([]model.WindowInfo, error)

	SetGeometry(ctx context.Context, id model.WindowId, r model.Rect, flags model.GeometryFlags, cfg *model.Config) error
	GetGeometry(ctx context.Context, id model.WindowId) (model.Rect, error)

	Maximize(ctx context.Context, id model.WindowId) error
	Unmaximize(ctx context.Context, id model.WindowId) error
	Minimize(ctx context.Context, id model.WindowId) error
	Unminimize(ctx context.Context, id model.WindowId) error

	GetCurrentWorkspace(ctx context.Context) (int32, error)
	GetWorkspaceCount(ctx context.Context) (uint32, error)
	CreateWorkspace(ctx context.Context) error
	RemoveWorkspace(ctx context.Context, ws int32) error

	// GetScreenBounds returns the usable work-area rectangle excluding
	// reserved strut regions (panels, docks).
	GetScreenBounds(ctx context.Context) (model.Rect, error)

	IsValid(ctx context.Context, id model.WindowId) bool
	IsExcluded(ctx context.Context, id model.WindowId) bool
	IsHidden(ctx context.Context, id model.WindowId) bool
	IsMinimized(ctx context.Context, id model.WindowId) bool
	IsMaximized(ctx context.Context, id model.WindowId) bool
	IsFullscreen(ctx context.Context, id model.WindowId) bool

	// GetFocused returns the focused window id, or ok=false if nothing
	// is focused (Option<WindowId> in the spec).
	GetFocused(ctx context.Context) (model.WindowId, bool)

	GetWindowName(ctx context.Context, id model.WindowId) (string, error)
	GetWindowClass(ctx context.Context, id model.WindowId) (string, error)

	DockHide(ctx context.Context) error
	DockRestore(ctx context.Context) error

	BorderAdd(ctx context.Context, id model.WindowId, colorRGB uint32, thickness uint32) error
	BorderRemove(ctx context.Context, id model.WindowId) error
	BorderUpdate(ctx context.Context, cfg *model.Config) error
	BorderCleanup(ctx context.Context) error

	KeymapInit(ctx context.Context) error
	KeymapCleanup(ctx context.Context) error
	// KeymapPoll is non-blocking; returns ok=false if nothing pending.
	KeymapPoll(ctx context.Context) (model.KeyAction, bool)

	GestureInit(ctx context.Context) error
	GestureCleanup(ctx context.Context) error
	// GesturePoll is non-blocking; returns ok=false if nothing pending.
	GesturePoll(ctx context.Context) (model.GestureEvent, bool)
}
