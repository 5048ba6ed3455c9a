package ipc_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/ipc"
	"github.com/gridflux/gridflux/internal/model"
)

type fakeHandler struct {
	moveErr       error
	lockErr       error
	unlockErr     error
	ruleAddErr    error
	ruleRemoved   bool
	bordersState  bool
	lastMoveTo    model.WorkspaceId
	lastMoveWhich model.WindowId
}

func (f *fakeHandler) QueryWindows(ws model.WorkspaceId, hasWS bool) []byte { return []byte("windows") }
func (f *fakeHandler) QueryWorkspaces() []byte                              { return []byte("workspaces") }
func (f *fakeHandler) QueryCount(ws model.WorkspaceId, hasWS bool) string   { return "3" }
func (f *fakeHandler) QueryApps() string                                   { return "apps" }

func (f *fakeHandler) Move(handle model.WindowId, ws model.WorkspaceId) error {
	f.lastMoveWhich = handle
	f.lastMoveTo = ws
	return f.moveErr
}
func (f *fakeHandler) Lock(ws model.WorkspaceId) error   { return f.lockErr }
func (f *fakeHandler) Unlock(ws model.WorkspaceId) error { return f.unlockErr }
func (f *fakeHandler) ToggleBorders() bool {
	f.bordersState = !f.bordersState
	return f.bordersState
}
func (f *fakeHandler) RuleAdd(class string, ws model.WorkspaceId) error { return f.ruleAddErr }
func (f *fakeHandler) RuleRemove(class string) (bool, error)           { return f.ruleRemoved, nil }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestDispatchUnknownCommandReturnsInvalid(t *testing.T) {
	d := ipc.NewDispatcher(&fakeHandler{}, testLogger())
	resp := d.Dispatch("frobnicate")
	assert.Equal(t, ipc.StatusErrorInvalidCommand, resp.Status)
}

func TestDispatchQueryCount(t *testing.T) {
	d := ipc.NewDispatcher(&fakeHandler{}, testLogger())
	resp := d.Dispatch("query count 1")
	assert.Equal(t, ipc.StatusSuccess, resp.Status)
	assert.Equal(t, "3", resp.Message)
}

func TestDispatchMoveSuccess(t *testing.T) {
	h := &fakeHandler{}
	d := ipc.NewDispatcher(h, testLogger())
	resp := d.Dispatch("move 0x2a 3")
	require.Equal(t, ipc.StatusSuccess, resp.Status)
	assert.EqualValues(t, 0x2a, h.lastMoveWhich)
	assert.EqualValues(t, 3, h.lastMoveTo)
}

func TestDispatchMoveMapsWorkspaceFullToShortMessage(t *testing.T) {
	h := &fakeHandler{moveErr: model.ErrWorkspaceFull}
	d := ipc.NewDispatcher(h, testLogger())
	resp := d.Dispatch("move 0x1 2")
	assert.Equal(t, "full", resp.Message)
}

func TestDispatchMoveInvalidHandleIsInvalidCommand(t *testing.T) {
	d := ipc.NewDispatcher(&fakeHandler{}, testLogger())
	resp := d.Dispatch("move not-hex 2")
	assert.Equal(t, ipc.StatusErrorInvalidCommand, resp.Status)
}

func TestDispatchLockAlreadyLocked(t *testing.T) {
	h := &fakeHandler{lockErr: model.ErrAlreadyLocked}
	d := ipc.NewDispatcher(h, testLogger())
	resp := d.Dispatch("lock 1")
	assert.Equal(t, "already locked", resp.Message)
}

func TestDispatchToggleBorders(t *testing.T) {
	d := ipc.NewDispatcher(&fakeHandler{}, testLogger())
	resp := d.Dispatch("toggle-borders")
	assert.Equal(t, "Borders enabled", resp.Message)
}

func TestDispatchRuleAddAndRemove(t *testing.T) {
	h := &fakeHandler{ruleRemoved: true}
	d := ipc.NewDispatcher(h, testLogger())

	added := d.Dispatch("rule add firefox 2")
	assert.Equal(t, ipc.StatusSuccess, added.Status)

	removed := d.Dispatch("rule remove firefox")
	assert.Contains(t, removed.Message, "Removed rule")
}

func TestDispatchRuleRemoveNotFound(t *testing.T) {
	h := &fakeHandler{ruleRemoved: false}
	d := ipc.NewDispatcher(h, testLogger())
	resp := d.Dispatch("rule remove unknown")
	assert.Equal(t, "not found", resp.Message)
}
