package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// reloadConfig implements §4.E.1: stat the config path, and if its mtime
// advanced past the current snapshot's LastModified, reparse and diff
// field-by-field. Running this twice with an unchanged file is a no-op
// (§8 invariant 8): Load stamps LastModified with the time it ran, so an
// unchanged file's mtime is never after it and no reparse happens.
func (e *Engine) reloadConfig(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.reloadConfig")
	defer span.End()

	mtime, err := e.loader.Mtime()
	if err != nil {
		e.logger.WithError(err).Warn("reload-config: stat failed")
		return
	}
	if !mtime.After(e.cfg.LastModified) {
		return
	}

	next, err := e.loader.Load()
	if err != nil {
		e.logger.WithError(err).Warn("reload-config: reparse failed")
		return
	}

	bordersToggled := e.cfg.EnableBorders != next.EnableBorders
	changed := !configEqual(e.cfg, next)
	e.cfg = next
	if !changed {
		return
	}

	e.logger.Info("config reloaded")

	if bordersToggled {
		e.onBordersToggled(ctx, next.EnableBorders)
	}
	e.syncWorkspaceCount(ctx)
}

// configEqual compares every field the spec's reload diff considers,
// ignoring LastModified itself (which always differs across a reload).
func configEqual(a, b *model.Config) bool {
	if a.MaxWindowsPerWorkspace != b.MaxWindowsPerWorkspace ||
		a.MaxWorkspaces != b.MaxWorkspaces ||
		a.DefaultPadding != b.DefaultPadding ||
		a.MinWindowSize != b.MinWindowSize ||
		a.BorderColor != b.BorderColor ||
		a.EnableBorders != b.EnableBorders {
		return false
	}
	if len(a.LockedWorkspaces) != len(b.LockedWorkspaces) {
		return false
	}
	for ws := range a.LockedWorkspaces {
		if _, ok := b.LockedWorkspaces[ws]; !ok {
			return false
		}
	}
	if len(a.Rules) != len(b.Rules) {
		return false
	}
	for i := range a.Rules {
		if a.Rules[i] != b.Rules[i] {
			return false
		}
	}
	return true
}

// onBordersToggled implements the border_cleanup/re-add half of reload.
func (e *Engine) onBordersToggled(ctx context.Context, enabled bool) {
	if err := e.backend.BorderCleanup(ctx); err != nil {
		e.recordBackendFailure("border_cleanup")
		e.logger.WithError(err).Warn("border cleanup failed on config reload")
	}
	if !enabled {
		return
	}

	for _, ws := range e.workspaces.List().All() {
		wins, err := e.backend.EnumerateWindows(ctx, int32(ws.ID)-int32(model.FirstWorkspaceId))
		if err != nil {
			e.recordBackendFailure("enumerate_windows")
			continue
		}
		for _, w := range wins {
			if !w.Flags.IsValid || e.backend.IsExcluded(ctx, w.ID) || e.backend.IsMinimized(ctx, w.ID) {
				continue
			}
			if err := e.backend.BorderAdd(ctx, w.ID, e.cfg.BorderColor, 2); err != nil {
				e.recordBackendFailure("border_add")
			}
		}
	}
}

// syncWorkspaceCount mirrors the backend's reported workspace count into
// the workspace list, materializing any newly-visible workspaces.
func (e *Engine) syncWorkspaceCount(ctx context.Context) {
	count, err := e.backend.GetWorkspaceCount(ctx)
	if err != nil {
		e.recordBackendFailure("get_workspace_count")
		return
	}
	target := model.WorkspaceId(count)
	if target < model.FirstWorkspaceId {
		target = model.FirstWorkspaceId
	}
	e.workspaces.Ensure(ctx, target, e.cfg.MaxWindowsPerWorkspace)
}
