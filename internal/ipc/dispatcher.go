package ipc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gridflux/gridflux/internal/model"
)

// Handler is the set of core operations the dispatcher invokes once it
// has parsed a request. The engine implements this; the dispatcher knows
// nothing about window/workspace storage itself (§4.G is transport and
// parsing only).
type Handler interface {
	QueryWindows(ws model.WorkspaceId, hasWS bool) []byte
	QueryWorkspaces() []byte
	QueryCount(ws model.WorkspaceId, hasWS bool) string
	QueryApps() string
	Move(handle model.WindowId, ws model.WorkspaceId) error
	Lock(ws model.WorkspaceId) error
	Unlock(ws model.WorkspaceId) error
	ToggleBorders() bool
	RuleAdd(class string, ws model.WorkspaceId) error
	RuleRemove(class string) (bool, error)
}

// Dispatcher parses ASCII command frames and invokes Handler, encoding
// the result as a fixed Response record. It runs single-threaded inside
// the control loop (§5) — Dispatch must never be called concurrently.
type Dispatcher struct {
	handler Handler
	logger  *logrus.Logger
}

// NewDispatcher returns a Dispatcher bound to handler.
func NewDispatcher(handler Handler, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{handler: handler, logger: logger}
}

// Dispatch parses and executes one request line, returning the response
// to write back to the client.
func (d *Dispatcher) Dispatch(request string) Response {
	fields := strings.Fields(strings.TrimSpace(request))
	if len(fields) == 0 {
		return Response{Status: StatusErrorInvalidCommand, Message: usage()}
	}

	switch fields[0] {
	case "query":
		return d.dispatchQuery(fields[1:])
	case "move":
		return d.dispatchMove(fields[1:])
	case "lock":
		return d.dispatchLock(fields[1:])
	case "unlock":
		return d.dispatchUnlock(fields[1:])
	case "toggle-borders":
		return d.dispatchToggleBorders()
	case "rule":
		return d.dispatchRule(fields[1:])
	default:
		return Response{Status: StatusErrorInvalidCommand, Message: usage()}
	}
}

func (d *Dispatcher) dispatchQuery(args []string) Response {
	if len(args) == 0 {
		return Response{Status: StatusErrorInvalidCommand, Message: usage()}
	}
	switch args[0] {
	case "windows":
		ws, hasWS, err := optionalWorkspace(args[1:])
		if err != nil {
			return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
		}
		return Response{Status: StatusSuccess, Message: string(d.handler.QueryWindows(ws, hasWS))}
	case "workspaces":
		return Response{Status: StatusSuccess, Message: string(d.handler.QueryWorkspaces())}
	case "count":
		ws, hasWS, err := optionalWorkspace(args[1:])
		if err != nil {
			return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
		}
		return Response{Status: StatusSuccess, Message: d.handler.QueryCount(ws, hasWS)}
	case "apps":
		return Response{Status: StatusSuccess, Message: d.handler.QueryApps()}
	default:
		return Response{Status: StatusErrorInvalidCommand, Message: usage()}
	}
}

func (d *Dispatcher) dispatchMove(args []string) Response {
	if len(args) != 2 {
		return Response{Status: StatusErrorInvalidCommand, Message: "usage: move HANDLE WS_ID"}
	}
	handle, err := parseHandle(args[0])
	if err != nil {
		return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
	}
	ws, err := parseWorkspace(args[1])
	if err != nil {
		return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
	}

	if err := d.handler.Move(handle, ws); err != nil {
		return Response{Status: StatusSuccess, Message: moveErrorMessage(err)}
	}
	return Response{Status: StatusSuccess, Message: fmt.Sprintf("Moved window %d to workspace %d", handle, ws)}
}

func moveErrorMessage(err error) string {
	switch {
	case isErr(err, model.ErrWindowNotFound):
		return "not found"
	case isErr(err, model.ErrWorkspaceLocked):
		return "locked"
	case isErr(err, model.ErrWorkspaceFull):
		return "full"
	case isErr(err, model.ErrWorkspaceMaximized):
		return "is maximized"
	default:
		return err.Error()
	}
}

func (d *Dispatcher) dispatchLock(args []string) Response {
	if len(args) != 1 {
		return Response{Status: StatusErrorInvalidCommand, Message: "usage: lock WS_ID"}
	}
	ws, err := parseWorkspace(args[0])
	if err != nil {
		return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
	}
	if err := d.handler.Lock(ws); err != nil {
		if isErr(err, model.ErrAlreadyLocked) {
			return Response{Status: StatusSuccess, Message: "already locked"}
		}
		return Response{Status: StatusSuccess, Message: "invalid id"}
	}
	return Response{Status: StatusSuccess, Message: fmt.Sprintf("Locked workspace %d", ws)}
}

func (d *Dispatcher) dispatchUnlock(args []string) Response {
	if len(args) != 1 {
		return Response{Status: StatusErrorInvalidCommand, Message: "usage: unlock WS_ID"}
	}
	ws, err := parseWorkspace(args[0])
	if err != nil {
		return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
	}
	if err := d.handler.Unlock(ws); err != nil {
		if isErr(err, model.ErrAlreadyUnlocked) {
			return Response{Status: StatusSuccess, Message: "already unlocked"}
		}
		return Response{Status: StatusSuccess, Message: "invalid id"}
	}
	return Response{Status: StatusSuccess, Message: fmt.Sprintf("Unlocked workspace %d", ws)}
}

func (d *Dispatcher) dispatchToggleBorders() Response {
	enabled := d.handler.ToggleBorders()
	if enabled {
		return Response{Status: StatusSuccess, Message: "Borders enabled"}
	}
	return Response{Status: StatusSuccess, Message: "Borders disabled"}
}

func (d *Dispatcher) dispatchRule(args []string) Response {
	if len(args) == 0 {
		return Response{Status: StatusErrorInvalidCommand, Message: "usage: rule add|remove ..."}
	}
	switch args[0] {
	case "add":
		if len(args) != 3 {
			return Response{Status: StatusErrorInvalidCommand, Message: "usage: rule add CLASS WS_ID"}
		}
		ws, err := parseWorkspace(args[2])
		if err != nil {
			return Response{Status: StatusErrorInvalidCommand, Message: err.Error()}
		}
		if err := d.handler.RuleAdd(args[1], ws); err != nil {
			return Response{Status: StatusSuccess, Message: "table full"}
		}
		return Response{Status: StatusSuccess, Message: fmt.Sprintf("Added rule %s -> workspace %d", args[1], ws)}
	case "remove":
		if len(args) != 2 {
			return Response{Status: StatusErrorInvalidCommand, Message: "usage: rule remove CLASS"}
		}
		removed, _ := d.handler.RuleRemove(args[1])
		if !removed {
			return Response{Status: StatusSuccess, Message: "not found"}
		}
		return Response{Status: StatusSuccess, Message: fmt.Sprintf("Removed rule %s", args[1])}
	default:
		return Response{Status: StatusErrorInvalidCommand, Message: "usage: rule add|remove ..."}
	}
}

func optionalWorkspace(args []string) (model.WorkspaceId, bool, error) {
	if len(args) == 0 {
		return 0, false, nil
	}
	ws, err := parseWorkspace(args[0])
	return ws, true, err
}

func parseWorkspace(s string) (model.WorkspaceId, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid workspace id %q", s)
	}
	return model.WorkspaceId(n), nil
}

func parseHandle(s string) (model.WindowId, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window handle %q", s)
	}
	return model.WindowId(n), nil
}

func isErr(err, target error) bool {
	return errors.Is(err, target)
}

func usage() string {
	return "usage: query {windows|workspaces|count} [WS_ID] | move HANDLE WS_ID | " +
		"lock WS_ID | unlock WS_ID | rule add|remove ... | toggle-borders"
}
