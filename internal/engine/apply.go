package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/pkg/layout"
)

// applyLayout implements §4.E.3: partition windows by workspace, skip
// maximized workspaces, and command the backend to set geometry on every
// window that needs it.
func (e *Engine) applyLayout(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.applyLayout")
	defer span.End()

	for _, ws := range e.workspaces.List().All() {
		if ws.HasMaximizedState || ws.WindowCount == 0 {
			continue
		}
		e.applyLayoutForWorkspace(ctx, ws)
	}
}

func (e *Engine) applyLayoutForWorkspace(ctx context.Context, ws *model.WorkspaceInfo) {
	all := e.windows.GetByWorkspace(ws.ID)

	tiled := make([]*model.WindowInfo, 0, len(all))
	for _, w := range all {
		if w.Flags.IsMinimized || e.backend.IsExcluded(ctx, w.ID) {
			continue
		}
		tiled = append(tiled, w)
	}
	if len(tiled) == 0 {
		return
	}

	bounds, err := e.backend.GetScreenBounds(ctx)
	if err != nil {
		e.recordBackendFailure("get_screen_bounds")
		return
	}

	// Columns is left at its zero value: BSP ignores it, and Grid treats
	// 0 as 2 (pkg/layout's own boundary default) rather than duplicating
	// that choice here.
	params := layout.Params{
		Padding:       e.cfg.DefaultPadding,
		MinWindowSize: e.cfg.MinWindowSize,
	}
	rects := make([]model.Rect, len(tiled))
	e.strategy.ApplyLayout(len(tiled), bounds, params, rects)

	for i, w := range tiled {
		// Preserves the source's C-precedence parse: is_minimized OR
		// (NOT needs_update AND NOT is_valid) — see the Design Notes'
		// explicit instruction to keep this parse rather than the
		// arguably-intended `is_minimized || !needs_update || !is_valid`.
		if w.Flags.IsMinimized || (!w.Flags.NeedsUpdate && !w.Flags.IsValid) {
			continue
		}

		if err := e.backend.SetGeometry(ctx, w.ID, rects[i], model.AllGeometry, e.cfg); err != nil {
			e.recordBackendFailure("set_geometry")
			continue
		}
		w.Geometry = rects[i]
	}

	for _, w := range all {
		w.Flags.NeedsUpdate = false
	}
}
