package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gridflux/gridflux/internal/ipc"
	"github.com/gridflux/gridflux/internal/model"
)

// The methods below implement ipc.Handler (§4.E.8, §4.G). They run
// inline in the loop goroutine — the dispatcher is single-threaded and
// never calls these concurrently with a tick (§5).

// QueryWindows implements ipc.Handler.
func (e *Engine) QueryWindows(ws model.WorkspaceId, hasWS bool) []byte {
	var source []*model.WindowInfo
	if hasWS {
		source = e.windows.GetByWorkspace(ws)
	} else {
		source = e.windows.All()
	}

	records := make([]ipc.WindowRecord, 0, len(source))
	for _, w := range source {
		var maximized, minimized, dockHidden uint8
		if w.Flags.IsMaximized {
			maximized = 1
		}
		if w.Flags.IsMinimized {
			minimized = 1
		}
		if w.DockHidden {
			dockHidden = 1
		}
		records = append(records, ipc.WindowRecord{
			ID:          uint64(w.ID),
			Workspace:   int32(w.Workspace),
			X:           w.Geometry.X,
			Y:           w.Geometry.Y,
			W:           w.Geometry.W,
			H:           w.Geometry.H,
			IsMaximized: maximized,
			IsMinimized: minimized,
			DockHidden:  dockHidden,
		})
	}
	return ipc.EncodeWindowFrame(records, uint32(e.windows.Len()))
}

// QueryWorkspaces implements ipc.Handler.
func (e *Engine) QueryWorkspaces() []byte {
	all := e.workspaces.List().All()
	records := make([]ipc.WorkspaceRecord, 0, len(all))
	for _, ws := range all {
		var locked, maximized uint8
		if ws.IsLocked {
			locked = 1
		}
		if ws.HasMaximizedState {
			maximized = 1
		}
		records = append(records, ipc.WorkspaceRecord{
			ID:             int32(ws.ID),
			WindowCount:    ws.WindowCount,
			MaxWindows:     ws.MaxWindows,
			AvailableSpace: ws.AvailableSpace,
			IsLocked:       locked,
			HasMaximized:   maximized,
		})
	}
	return ipc.EncodeWorkspaceFrame(records, uint32(len(all)), int32(e.lastActiveWorkspace))
}

// QueryCount implements ipc.Handler.
func (e *Engine) QueryCount(ws model.WorkspaceId, hasWS bool) string {
	if !hasWS {
		return fmt.Sprintf("Total windows: %d", e.windows.Len())
	}
	n := len(e.windows.GetByWorkspace(ws))
	return fmt.Sprintf("Workspace %d has %d windows", ws, n)
}

// QueryApps implements ipc.Handler.
func (e *Engine) QueryApps() string {
	classes := make([]string, 0, e.windows.Len())
	for _, w := range e.windows.All() {
		classes = append(classes, w.Class)
	}
	return strings.Join(classes, "\n")
}

// Move implements ipc.Handler (§4.G, S2).
func (e *Engine) Move(handle model.WindowId, ws model.WorkspaceId) error {
	w, ok := e.windows.Get(handle)
	if !ok {
		return model.ErrWindowNotFound
	}
	if w.Flags.IsMaximized {
		return model.ErrWorkspaceMaximized
	}
	if w.Workspace == ws {
		return nil
	}

	dest, ok := e.workspaces.Get(ws)
	if !ok {
		e.workspaces.Ensure(context.Background(), ws, e.cfg.MaxWindowsPerWorkspace)
		dest, _ = e.workspaces.Get(ws)
	}
	if dest != nil && dest.IsLocked {
		return model.ErrWorkspaceLocked
	}
	if dest != nil && dest.AvailableSpace <= 0 {
		return model.ErrWorkspaceFull
	}

	source, _ := e.workspaces.Get(w.Workspace)
	w.Workspace = ws
	w.Flags.NeedsUpdate = true
	e.windows.MarkWorkspaceNeedsUpdate(ws)
	if source != nil {
		source.WindowCount--
		source.AvailableSpace++
	}
	if dest != nil {
		dest.WindowCount++
		dest.AvailableSpace--
	}
	return nil
}

// Lock implements ipc.Handler.
func (e *Engine) Lock(ws model.WorkspaceId) error {
	if err := e.workspaces.Lock(ws); err != nil {
		return err
	}
	return e.loader.AddLockedWorkspace(e.cfg, ws)
}

// Unlock implements ipc.Handler.
func (e *Engine) Unlock(ws model.WorkspaceId) error {
	if err := e.workspaces.Unlock(ws); err != nil {
		return err
	}
	return e.loader.RemoveLockedWorkspace(e.cfg, ws)
}

// ToggleBorders implements ipc.Handler.
func (e *Engine) ToggleBorders() bool {
	e.cfg.EnableBorders = !e.cfg.EnableBorders
	_ = e.loader.Save(e.cfg)
	return e.cfg.EnableBorders
}

// RuleAdd implements ipc.Handler.
func (e *Engine) RuleAdd(class string, ws model.WorkspaceId) error {
	return e.loader.RulesAdd(e.cfg, class, ws)
}

// RuleRemove implements ipc.Handler.
func (e *Engine) RuleRemove(class string) (bool, error) {
	return e.loader.RulesRemove(e.cfg, class)
}
