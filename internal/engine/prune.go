package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// prune implements §4.E.9: rate-limited to once per second, remove every
// tracked window that has become invalid, excluded, or hidden, and clean
// up the maximized-workspace bookkeeping if the pruned window was the
// last maximized occupant.
func (e *Engine) prune(ctx context.Context) {
	if !e.pruneLimiter.Allow() {
		return
	}

	_, span := e.tracer.Start(ctx, "engine.Engine.prune")
	defer span.End()

	for _, w := range e.windows.All() {
		valid := e.backend.IsValid(ctx, w.ID)
		excluded := e.backend.IsExcluded(ctx, w.ID)
		hidden := e.backend.IsHidden(ctx, w.ID)
		if valid && !excluded && !hidden {
			continue
		}

		wasMaximized := w.Flags.IsMaximized
		ws := w.Workspace
		e.windows.Remove(w.ID)

		if wasMaximized {
			e.clearMaximizedStateIfLastOccupant(ws)
		}

		if err := e.backend.BorderRemove(ctx, w.ID); err != nil {
			e.recordBackendFailure("border_remove")
		}

		e.logger.WithFields(map[string]interface{}{"window": w.ID}).Debug("window pruned")
	}

	e.workspaces.RebuildStats(e.windows, e.cfg.MaxWindowsPerWorkspace)
	e.workspaces.Reap(e.lastActiveWorkspace)
}

// clearMaximizedStateIfLastOccupant clears HasMaximizedState on ws and
// resets its capacity fields to ordinary tiling defaults if ws no longer
// has any maximized window (§4.E.9).
func (e *Engine) clearMaximizedStateIfLastOccupant(ws model.WorkspaceId) {
	for _, w := range e.windows.GetByWorkspace(ws) {
		if w.Flags.IsMaximized {
			return
		}
	}
	wsInfo, ok := e.workspaces.Get(ws)
	if !ok {
		return
	}
	wsInfo.HasMaximizedState = false
	wsInfo.MaxWindows = e.cfg.MaxWindowsPerWorkspace
}
