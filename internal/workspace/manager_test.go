package workspace_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/collections"
	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/workspace"
)

func newTestManager() *workspace.Manager {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return workspace.New(logger)
}

func TestEnsureMaterializesRange(t *testing.T) {
	m := newTestManager()
	m.Ensure(context.Background(), 3, 5)

	for i := model.WorkspaceId(1); i <= 3; i++ {
		ws, ok := m.Get(i)
		require.True(t, ok)
		assert.EqualValues(t, 5, ws.AvailableSpace)
	}
}

func TestCreateFailsPastMaxWorkspaces(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	_, err := m.Create(ctx, 3, 0, false, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrWorkspaceFull)
}

func TestFindFreeCreatesWhenAllLocked(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	m.Ensure(ctx, 1, 3)
	require.NoError(t, m.Lock(1))

	id, err := m.FindFree(ctx, 3, 32)
	require.NoError(t, err)
	assert.EqualValues(t, 2, id)
}

func TestLockUnlockRoundTrip(t *testing.T) {
	m := newTestManager()
	m.Ensure(context.Background(), 1, 3)

	require.NoError(t, m.Lock(1))
	assert.ErrorIs(t, m.Lock(1), model.ErrAlreadyLocked)

	require.NoError(t, m.Unlock(1))
	assert.ErrorIs(t, m.Unlock(1), model.ErrAlreadyUnlocked)

	ws, _ := m.Get(1)
	assert.EqualValues(t, 3, ws.AvailableSpace)
}

func TestRebuildStatsRecountsFromWindowList(t *testing.T) {
	m := newTestManager()
	m.Ensure(context.Background(), 1, 2)

	windows := collections.NewWindowList()
	windows.Upsert(model.WindowInfo{ID: 1, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})
	windows.Upsert(model.WindowInfo{ID: 2, Workspace: 1, Flags: model.WindowFlags{IsValid: true}})

	m.RebuildStats(windows, 2)

	ws, _ := m.Get(1)
	assert.EqualValues(t, 2, ws.WindowCount)
	assert.EqualValues(t, 0, ws.AvailableSpace)
}

func TestReapKeepsAtLeastOneWorkspace(t *testing.T) {
	m := newTestManager()
	m.Ensure(context.Background(), 1, 3)
	m.Reap(1)
	_, ok := m.Get(1)
	assert.True(t, ok, "must not reap the sole remaining workspace")
}
