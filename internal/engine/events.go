package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// handleEvents implements §4.E.5: read the focused window and reconcile
// maximize, minimize, and workspace-switch transitions. drainKeymap
// (§4.E.7) detects its own keymap-driven switches and calls
// handleWorkspaceSwitch directly rather than through here.
func (e *Engine) handleEvents(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.handleEvents")
	defer span.End()

	focused, ok := e.backend.GetFocused(ctx)
	if !ok || e.backend.IsExcluded(ctx, focused) {
		return
	}

	w, tracked := e.windows.Get(focused)
	if tracked {
		e.handleMaximizeTransition(ctx, w)
		e.reconcileMinimized(ctx, w.Workspace)

		if w.Workspace != e.lastActiveWorkspace && e.lastActiveWindow != 0 {
			e.handleWorkspaceSwitch(ctx, w.Workspace, focused)
		}
	}

	e.lastActiveWindow = focused
	if tracked {
		e.lastActiveWorkspace = w.Workspace
	}
}

// handleMaximizeTransition implements the maximize-transition half of
// §4.E.5.
func (e *Engine) handleMaximizeTransition(ctx context.Context, w *model.WindowInfo) {
	was := w.Flags.IsMaximized
	now := e.backend.IsMaximized(ctx, w.ID)

	switch {
	case !was && now:
		w.Flags.IsMaximized = true

		dest, ok := e.workspaces.FirstMaximized()
		if !ok {
			var err error
			dest, err = e.workspaces.Create(ctx, e.cfg.MaxWindowsPerWorkspace, e.cfg.MaxWorkspaces, true, false)
			if err != nil {
				e.logger.WithError(err).Warn("maximize: failed to create maximized workspace")
				return
			}
		}
		w.Workspace = dest
		if destWS, ok := e.workspaces.Get(dest); ok {
			destWS.HasMaximizedState = true
		}

		for _, other := range e.windows.GetByWorkspace(dest) {
			if other.ID == w.ID || e.backend.IsExcluded(ctx, other.ID) {
				continue
			}
			if err := e.backend.Minimize(ctx, other.ID); err != nil {
				e.recordBackendFailure("minimize")
				continue
			}
			other.Flags.IsMinimized = true
		}

		if err := e.backend.DockHide(ctx); err != nil {
			e.recordBackendFailure("dock_hide")
		} else {
			w.DockHidden = true
			e.dockHidden = true
		}
		e.notifyLayoutChanged(dest)

	case was && !now:
		w.Flags.IsMaximized = false
		oldWS := w.Workspace

		if oldWS, ok := e.workspaces.Get(oldWS); ok {
			stillMaximized := false
			for _, other := range e.windows.GetByWorkspace(oldWS.ID) {
				if other.ID != w.ID && other.Flags.IsMaximized {
					stillMaximized = true
					break
				}
			}
			if !stillMaximized {
				oldWS.HasMaximizedState = false
			}
		}

		dest, err := e.workspaces.FindFree(ctx, e.cfg.MaxWindowsPerWorkspace, e.cfg.MaxWorkspaces)
		if err == nil {
			w.Workspace = dest
		}

		if _, stillMaximizedWS := e.workspaces.FirstMaximized(); !stillMaximizedWS {
			if err := e.backend.DockRestore(ctx); err != nil {
				e.recordBackendFailure("dock_restore")
			} else {
				w.DockHidden = false
				e.dockHidden = false
			}
		}
		e.notifyLayoutChanged(w.Workspace)
	}
}

// reconcileMinimized copies the backend's is_minimized state for every
// tracked window on ws into the stored flag — the only path bringing the
// core's view in line with user-initiated minimize actions it did not
// cause (§4.E.5).
func (e *Engine) reconcileMinimized(ctx context.Context, ws model.WorkspaceId) {
	for _, w := range e.windows.GetByWorkspace(ws) {
		w.Flags.IsMinimized = e.backend.IsMinimized(ctx, w.ID)
	}
}

// handleWorkspaceSwitch implements the workspace-switch-detection half of
// §4.E.5: minimize everything elsewhere, unminimize (or partially
// unminimize, on a maximized target) the new workspace, bringing the
// focused window to front last.
func (e *Engine) handleWorkspaceSwitch(ctx context.Context, target model.WorkspaceId, focused model.WindowId) {
	for _, ws := range e.workspaces.List().All() {
		if ws.ID == target {
			continue
		}
		for _, w := range e.windows.GetByWorkspace(ws.ID) {
			if e.backend.IsExcluded(ctx, w.ID) {
				continue
			}
			if err := e.backend.Minimize(ctx, w.ID); err != nil {
				e.recordBackendFailure("minimize")
				continue
			}
			w.Flags.IsMinimized = true
		}
	}

	targetWS, _ := e.workspaces.Get(target)
	isMaximizedTarget := targetWS != nil && targetWS.HasMaximizedState

	for _, w := range e.windows.GetByWorkspace(target) {
		if e.backend.IsExcluded(ctx, w.ID) || e.backend.IsHidden(ctx, w.ID) {
			continue
		}
		// Preserves the source's observed behavior: on a maximized target
		// workspace, only the active window is unminimized, not every
		// maximized occupant (§9 open question — behavior kept as-is).
		if isMaximizedTarget && w.ID != focused {
			continue
		}
		if err := e.backend.Unminimize(ctx, w.ID); err != nil {
			e.recordBackendFailure("unminimize")
			continue
		}
		w.Flags.IsMinimized = false
	}

	if w, ok := e.windows.Get(focused); ok && !e.backend.IsExcluded(ctx, focused) {
		if err := e.backend.Unminimize(ctx, focused); err == nil {
			w.Flags.IsMinimized = false
		}
	}

	if isMaximizedTarget {
		if err := e.backend.DockHide(ctx); err == nil {
			e.dockHidden = true
		}
	} else if e.dockHidden {
		if err := e.backend.DockRestore(ctx); err == nil {
			e.dockHidden = false
		}
	}
}

func (e *Engine) notifyLayoutChanged(ws model.WorkspaceId) {
	if e.notify == nil {
		return
	}
	e.notify.Broadcast(notifyEventLayoutChanged(ws))
}
