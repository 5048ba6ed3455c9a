// Package model holds the data types shared across GridFlux's core:
// window and workspace records, the config snapshot, and the rule table
// entry shape. Nothing in this package depends on any other GridFlux
// package, so platform backends, the layout engine, and the engine itself
// all import it without cycles.
package model

import "time"

// WindowId is the backend-assigned handle for a top-level window. It is
// opaque and stable for the window's lifetime.
type WindowId uint64

// WorkspaceId is 1-indexed; 0 and negative values are sentinels meaning
// "none". There is no upper bound beyond Config.MaxWorkspaces.
type WorkspaceId int32

// NoWorkspace is the sentinel WorkspaceId meaning "not assigned".
const NoWorkspace WorkspaceId = 0

// FirstWorkspaceId is the lowest legal workspace id. Backends number
// workspaces from 0; the core numbers them from 1. The conversion must
// happen exactly at the backend boundary (see platform.Backend).
const FirstWorkspaceId WorkspaceId = 1

// Rect is a rectangle in the coordinate system of the workspace-bounds
// rectangle the backend returned for the current tick: origin top-left,
// y grows downward. Valid iff W>0 && H>0.
type Rect struct {
	X, Y int32
	W, H uint32
}

// Valid reports whether r has positive width and height.
func (r Rect) Valid() bool {
	return r.W > 0 && r.H > 0
}

// WindowFlags are the mutable boolean state bits of a tracked window.
type WindowFlags struct {
	IsMaximized bool
	IsMinimized bool
	IsValid     bool
	NeedsUpdate bool
}

// WindowInfo is the core's record for one tracked window.
type WindowInfo struct {
	ID            WindowId
	Workspace     WorkspaceId
	Geometry      Rect
	Name          string
	Class         string
	Flags         WindowFlags
	LastModified  time.Time
	DockHidden    bool
}

// WorkspaceInfo is the core's record for one workspace bucket.
type WorkspaceInfo struct {
	ID                WorkspaceId
	WindowCount       uint32
	MaxWindows        uint32
	AvailableSpace    int32
	IsLocked          bool
	HasMaximizedState bool
}

// WindowRule maps a case-folded window class to a target workspace.
type WindowRule struct {
	Class     string // <=128 chars, matched case-insensitively
	Workspace WorkspaceId
}

// Config is the immutable-within-a-tick configuration snapshot the core
// consults at the top of every tick (§4.E.1 reload-config).
type Config struct {
	MaxWindowsPerWorkspace uint32
	MaxWorkspaces          uint32
	DefaultPadding         int32
	MinWindowSize          uint32
	BorderColor            uint32 // 0xRRGGBB
	EnableBorders          bool
	LockedWorkspaces       map[WorkspaceId]struct{}
	Rules                  []WindowRule
	LastModified           time.Time
}

// Clone returns a deep copy safe to mutate without affecting the
// original snapshot.
func (c *Config) Clone() *Config {
	cp := *c
	cp.LockedWorkspaces = make(map[WorkspaceId]struct{}, len(c.LockedWorkspaces))
	for k := range c.LockedWorkspaces {
		cp.LockedWorkspaces[k] = struct{}{}
	}
	cp.Rules = append([]WindowRule(nil), c.Rules...)
	return &cp
}

// IsLocked reports whether ws is in the locked-workspace set.
func (c *Config) IsLocked(ws WorkspaceId) bool {
	_, ok := c.LockedWorkspaces[ws]
	return ok
}

// KeyAction is a discrete action reported by the platform's keymap
// capability.
type KeyAction int

const (
	KeyActionNone KeyAction = iota
	KeyActionWorkspacePrev
	KeyActionWorkspaceNext
)

// GestureType enumerates the phases of a multi-finger swipe gesture.
type GestureType int

const (
	GestureSwipeBegin GestureType = iota
	GestureSwipeUpdate
	GestureSwipeEnd
	GestureSwipeCancel
)

// GestureEvent is a discrete gesture sample reported by the platform's
// gesture capability.
type GestureEvent struct {
	Type     GestureType
	Fingers  uint32
	Dx, Dy   float32
	TotalDx  float32
	TotalDy  float32
}

// GeometryFlags selects which fields of a set-geometry call take effect.
type GeometryFlags uint8

const (
	ChangeX GeometryFlags = 1 << iota
	ChangeY
	ChangeW
	ChangeH
	ApplyPadding
)

// AllGeometry is the flag set used by the layout engine's tiling commands.
const AllGeometry = ChangeX | ChangeY | ChangeW | ChangeH | ApplyPadding
