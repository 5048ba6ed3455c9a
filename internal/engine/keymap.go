package engine

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// drainKeymap implements §4.E.7: poll the keymap capability for discrete
// workspace-switch actions, invoking handleWorkspaceSwitch directly since
// the focused window itself hasn't changed. Runs after handleEvents so a
// keymap-triggered switch is not reverted by the event handler re-reading
// the now-stale focused window (§5 Ordering guarantees).
func (e *Engine) drainKeymap(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.drainKeymap")
	defer span.End()

	action, ok := e.backend.KeymapPoll(ctx)
	if !ok || action == model.KeyActionNone {
		return
	}

	count := e.workspaces.List().Len()
	if count == 0 {
		return
	}

	current := int(e.lastActiveWorkspace - model.FirstWorkspaceId)
	switch action {
	case model.KeyActionWorkspacePrev:
		current = (current - 1 + count) % count
	case model.KeyActionWorkspaceNext:
		current = (current + 1) % count
	default:
		return
	}

	target := model.WorkspaceId(current) + model.FirstWorkspaceId

	// Directly invoke the workspace-switch logic of §4.E.5 rather than
	// waiting for focus to move, then pin last_active_workspace so the
	// next tick's handleEvents does not treat this as a fresh switch.
	focused, ok := e.backend.GetFocused(ctx)
	if !ok {
		focused = e.lastActiveWindow
	}
	e.handleWorkspaceSwitch(ctx, target, focused)
	e.lastActiveWorkspace = target
}
