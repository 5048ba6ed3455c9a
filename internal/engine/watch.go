package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/rules"
)

// watch implements §4.E.2: discover windows on every materialized
// workspace, insert new ones per the assignment policy, and preserve the
// core-managed fields of windows it already tracks.
func (e *Engine) watch(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.watch")
	defer span.End()

	e.minimizeOthersIfFullscreenFocused(ctx)

	for _, ws := range e.workspaces.List().All() {
		backendWS := int32(ws.ID) - int32(model.FirstWorkspaceId)
		reported, err := e.backend.EnumerateWindows(ctx, backendWS)
		if err != nil {
			e.recordBackendFailure("enumerate_windows")
			continue
		}

		for _, scanned := range reported {
			if !scanned.Flags.IsValid || e.backend.IsExcluded(ctx, scanned.ID) {
				continue
			}

			existing, tracked := e.windows.Get(scanned.ID)
			if !tracked {
				e.trackNewWindow(ctx, scanned)
				continue
			}

			// Preserve core-managed fields: the backend's reported desktop
			// number, maximize, and minimize flags must not clobber the
			// core's own bookkeeping (§4.E.2.3).
			scanned.Workspace = existing.Workspace
			scanned.Flags.IsMaximized = existing.Flags.IsMaximized
			scanned.Flags.IsMinimized = existing.Flags.IsMinimized
			scanned.DockHidden = existing.DockHidden
			e.windows.Upsert(scanned)
		}
	}

	e.workspaces.RebuildStats(e.windows, e.cfg.MaxWindowsPerWorkspace)
}

// minimizeOthersIfFullscreenFocused implements the pre-watch fullscreen
// check: "don't tile over a fullscreen app" (§4.E.2).
func (e *Engine) minimizeOthersIfFullscreenFocused(ctx context.Context) {
	focused, ok := e.backend.GetFocused(ctx)
	if !ok || !e.backend.IsFullscreen(ctx, focused) {
		return
	}

	for _, w := range e.windows.All() {
		if w.ID == focused || e.backend.IsExcluded(ctx, w.ID) {
			continue
		}
		if err := e.backend.Minimize(ctx, w.ID); err != nil {
			e.recordBackendFailure("minimize")
			continue
		}
		w.Flags.IsMinimized = true
	}
}

// trackNewWindow assigns a newly-discovered window to a workspace per
// the priority policy of §4.E.2, inserts it, and establishes the
// active-workspace-is-visible invariant.
func (e *Engine) trackNewWindow(ctx context.Context, w model.WindowInfo) {
	ws := e.assignNewWindowWorkspace(ctx, w)
	w.Workspace = ws
	w.Flags.NeedsUpdate = true
	e.windows.Upsert(w)

	if err := e.backend.Unminimize(ctx, w.ID); err != nil {
		e.recordBackendFailure("unminimize")
	}
	w.Flags.IsMinimized = false

	e.lastActiveWorkspace = ws
	for _, other := range e.windows.All() {
		if other.Workspace == ws || e.backend.IsExcluded(ctx, other.ID) {
			continue
		}
		if err := e.backend.Minimize(ctx, other.ID); err != nil {
			e.recordBackendFailure("minimize")
			continue
		}
		other.Flags.IsMinimized = true
	}

	if e.cfg.EnableBorders {
		if err := e.backend.BorderAdd(ctx, w.ID, e.cfg.BorderColor, 2); err != nil {
			e.recordBackendFailure("border_add")
		}
	}

	e.logger.WithFields(map[string]interface{}{"window": w.ID, "workspace": ws}).Info("new window tracked")
}

// assignNewWindowWorkspace implements the priority order of §4.E.2's
// "new-window workspace assignment policy".
func (e *Engine) assignNewWindowWorkspace(ctx context.Context, w model.WindowInfo) model.WorkspaceId {
	class := w.Class
	if class == "" {
		if got, err := e.backend.GetWindowClass(ctx, w.ID); err == nil {
			class = got
		}
	}

	if ws, ok := rules.Lookup(e.cfg.Rules, class); ok {
		e.workspaces.Ensure(ctx, ws, e.cfg.MaxWindowsPerWorkspace)
		return ws
	}

	if e.backend.IsMaximized(ctx, w.ID) {
		if ws, ok := e.workspaces.FirstMaximized(); ok {
			return ws
		}
		ws, err := e.workspaces.Create(ctx, e.cfg.MaxWindowsPerWorkspace, e.cfg.MaxWorkspaces, true, false)
		if err != nil {
			e.logger.WithError(err).Warn("watch: failed to create maximized workspace, falling back")
			return e.lastActiveWorkspace
		}
		return ws
	}

	if active, ok := e.workspaces.Get(e.lastActiveWorkspace); ok && active.AvailableSpace > 0 {
		return active.ID
	}

	ws, err := e.workspaces.FindFree(ctx, e.cfg.MaxWindowsPerWorkspace, e.cfg.MaxWorkspaces)
	if err != nil {
		e.logger.WithError(err).Warn("watch: find_free failed, keeping window on active workspace")
		return e.lastActiveWorkspace
	}
	return ws
}
