package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// rebalanceOverflow implements §4.E.4: for every workspace over capacity,
// migrate its most-recently-added windows elsewhere until it fits. Runs
// every tick and converges to a fixpoint where no workspace exceeds
// max_windows_per_workspace.
func (e *Engine) rebalanceOverflow(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.rebalanceOverflow")
	defer span.End()

	for _, ws := range e.workspaces.List().All() {
		if ws.WindowCount <= ws.MaxWindows {
			continue
		}
		overflow := ws.WindowCount - ws.MaxWindows
		for i := uint32(0); i < overflow; i++ {
			if !e.migrateOneOverflowWindow(ctx, ws) {
				break
			}
		}
	}
}

// migrateOneOverflowWindow moves the first (most-recently-added) window
// of source's filtered view to a destination workspace, returning
// whether a move happened.
func (e *Engine) migrateOneOverflowWindow(ctx context.Context, source *model.WorkspaceInfo) bool {
	candidates := e.windows.GetByWorkspace(source.ID)
	if len(candidates) == 0 {
		return false
	}
	moving := candidates[0]

	dest, err := e.overflowDestination(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("rebalance: no destination workspace available")
		return false
	}
	if dest == source.ID {
		return false
	}

	moving.Workspace = dest
	moving.Flags.NeedsUpdate = true
	e.windows.MarkWorkspaceNeedsUpdate(dest)

	source.WindowCount--
	if source.AvailableSpace >= 0 {
		source.AvailableSpace++
	}
	if destWS, ok := e.workspaces.Get(dest); ok {
		destWS.WindowCount++
		if destWS.AvailableSpace > 0 {
			destWS.AvailableSpace--
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"window": moving.ID, "from": source.ID, "to": dest,
	}).Info("overflow rebalance moved window")
	return true
}

// overflowDestination implements the destination-selection priority of
// §4.E.4: active workspace with space, else find_free, else create.
func (e *Engine) overflowDestination(ctx context.Context) (model.WorkspaceId, error) {
	if active, ok := e.workspaces.Get(e.lastActiveWorkspace); ok && active.AvailableSpace > 0 {
		return active.ID, nil
	}
	return e.workspaces.FindFree(ctx, e.cfg.MaxWindowsPerWorkspace, e.cfg.MaxWorkspaces)
}
