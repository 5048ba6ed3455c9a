package engine

import (
	"github.com/gridflux/gridflux/internal/ipc"
	"github.com/gridflux/gridflux/internal/model"
)

// notifyEventLayoutChanged builds the GUI push-notification event the
// engine sends when it handles a maximize or unmaximize transition;
// workspace switches, new windows and overflow moves send no event. This
// is additive to the request/response IPC surface (internal/ipc.Notifier).
func notifyEventLayoutChanged(ws model.WorkspaceId) ipc.Event {
	return ipc.Event{Kind: "layout_changed", Workspace: int32(ws)}
}
