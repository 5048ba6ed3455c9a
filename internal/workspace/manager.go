// Package workspace implements the workspace manager: the component that
// creates, locates, locks, and removes workspace buckets and maintains
// their per-workspace capacity accounting (§4.D). It is grounded on the
// teacher's internal/desktop/workspace_manager.go — same
// logrus+otel-traced method shape, generalized from the teacher's desktop
// workspace model to GridFlux's WorkspaceInfo.
package workspace

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridflux/gridflux/internal/collections"
	"github.com/gridflux/gridflux/internal/model"
)

// Manager owns the workspace list, its available_space accounting and its
// lock state (§4.D). Create and FindFree refuse ids past max_workspaces;
// Ensure materializes whatever range 1..=id it is given and checks no
// upper bound.
type Manager struct {
	list   *collections.WorkspaceList
	logger *logrus.Logger
	tracer trace.Tracer
}

// New returns an empty workspace manager.
func New(logger *logrus.Logger) *Manager {
	return &Manager{
		list:   collections.NewWorkspaceList(),
		logger: logger,
		tracer: otel.Tracer("workspace.Manager"),
	}
}

// List exposes the underlying storage for read access by the engine's
// rebuild/query paths.
func (m *Manager) List() *collections.WorkspaceList { return m.list }

// Get returns the workspace record for id, if materialized.
func (m *Manager) Get(id model.WorkspaceId) (*model.WorkspaceInfo, bool) {
	return m.list.Get(id)
}

// Ensure materializes every workspace in 1..=id that does not yet exist,
// each with window_count=0, available_space=maxPerWS, unlocked and
// non-maximized.
func (m *Manager) Ensure(ctx context.Context, id model.WorkspaceId, maxPerWS uint32) {
	_, span := m.tracer.Start(ctx, "workspace.Manager.Ensure")
	defer span.End()

	for i := model.FirstWorkspaceId; i <= id; i++ {
		if _, ok := m.list.Get(i); ok {
			continue
		}
		m.list.Upsert(model.WorkspaceInfo{
			ID:             i,
			WindowCount:    0,
			MaxWindows:     maxPerWS,
			AvailableSpace: int32(maxPerWS),
		})
		m.logger.WithFields(logrus.Fields{"workspace": i}).Debug("workspace materialized")
	}
}

// Create appends a new workspace at count+1 and returns its id. It fails
// with ErrWorkspaceFull if that id would exceed maxWorkspaces.
func (m *Manager) Create(ctx context.Context, maxPerWS, maxWorkspaces uint32, maximized, locked bool) (model.WorkspaceId, error) {
	_, span := m.tracer.Start(ctx, "workspace.Manager.Create")
	defer span.End()

	next := m.list.MaxID() + 1
	if next < model.FirstWorkspaceId {
		next = model.FirstWorkspaceId
	}
	if uint32(next) > maxWorkspaces {
		return 0, model.ErrWorkspaceFull
	}

	ws := model.WorkspaceInfo{
		ID:                next,
		WindowCount:       0,
		MaxWindows:        maxPerWS,
		AvailableSpace:    int32(maxPerWS),
		IsLocked:          locked,
		HasMaximizedState: maximized,
	}
	m.list.Upsert(ws)
	m.logger.WithFields(logrus.Fields{
		"workspace": next, "maximized": maximized, "locked": locked,
	}).Info("workspace created")
	return next, nil
}

// FindFree returns the smallest existing workspace id with available
// space and not locked. If none qualifies, it creates a new one.
func (m *Manager) FindFree(ctx context.Context, maxPerWS, maxWorkspaces uint32) (model.WorkspaceId, error) {
	_, span := m.tracer.Start(ctx, "workspace.Manager.FindFree")
	defer span.End()

	var best model.WorkspaceId
	for _, ws := range m.list.All() {
		if ws.AvailableSpace > 0 && !ws.IsLocked {
			if best == 0 || ws.ID < best {
				best = ws.ID
			}
		}
	}
	if best != 0 {
		return best, nil
	}
	return m.Create(ctx, maxPerWS, maxWorkspaces, false, false)
}

// FirstMaximized returns the id of the workspace with HasMaximizedState
// set, if one exists.
func (m *Manager) FirstMaximized() (model.WorkspaceId, bool) {
	for _, ws := range m.list.All() {
		if ws.HasMaximizedState {
			return ws.ID, true
		}
	}
	return 0, false
}

// Lock sets IsLocked on id. Fails with ErrAlreadyLocked if redundant.
func (m *Manager) Lock(id model.WorkspaceId) error {
	ws, ok := m.list.Get(id)
	if !ok {
		return fmt.Errorf("%w: workspace %d", model.ErrInvalidParameter, id)
	}
	if ws.IsLocked {
		return model.ErrAlreadyLocked
	}
	ws.IsLocked = true
	ws.AvailableSpace = 0
	return nil
}

// Unlock clears IsLocked on id. Fails with ErrAlreadyUnlocked if
// redundant.
func (m *Manager) Unlock(id model.WorkspaceId) error {
	ws, ok := m.list.Get(id)
	if !ok {
		return fmt.Errorf("%w: workspace %d", model.ErrInvalidParameter, id)
	}
	if !ws.IsLocked {
		return model.ErrAlreadyUnlocked
	}
	ws.IsLocked = false
	if ws.WindowCount < ws.MaxWindows {
		ws.AvailableSpace = int32(ws.MaxWindows - ws.WindowCount)
	}
	return nil
}

// RebuildStats recounts every workspace from the live window set and
// recomputes available_space = max(0, max_windows - window_count), zero
// when locked (§4.D, invariant 3 of the testable properties).
func (m *Manager) RebuildStats(windows *collections.WindowList, maxPerWS uint32) {
	counts := make(map[model.WorkspaceId]uint32)
	for _, w := range windows.All() {
		if w.Flags.IsValid {
			counts[w.Workspace]++
		}
	}

	for _, ws := range m.list.All() {
		ws.WindowCount = counts[ws.ID]
		if ws.MaxWindows == 0 {
			ws.MaxWindows = maxPerWS
		}
		if ws.IsLocked {
			ws.AvailableSpace = 0
			continue
		}
		if ws.WindowCount >= ws.MaxWindows {
			ws.AvailableSpace = 0
		} else {
			ws.AvailableSpace = int32(ws.MaxWindows - ws.WindowCount)
		}
	}
}

// Reap removes every workspace that is empty, not active, not locked, not
// in maximized mode, and not the only materialized workspace (§3
// workspace lifecycle).
func (m *Manager) Reap(active model.WorkspaceId) {
	if m.list.Len() <= 1 {
		return
	}
	for _, ws := range m.list.All() {
		if ws.ID == active || ws.WindowCount > 0 || ws.IsLocked || ws.HasMaximizedState {
			continue
		}
		if m.list.Len() <= 1 {
			return
		}
		m.list.Remove(ws.ID)
		m.logger.WithFields(logrus.Fields{"workspace": ws.ID}).Debug("workspace reaped")
	}
}
