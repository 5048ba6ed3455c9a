// Package collections implements the insertion-ordered, swap-remove
// window and workspace lists the engine uses to own its records. Neither
// list contracts to preserve insertion order across a removal; callers
// that need stable identity key by id (model.WindowId / model.WorkspaceId).
package collections

import "github.com/gridflux/gridflux/internal/model"

// WindowList is an insertion-ordered sequence of window records with
// O(n) by-id lookup, matching the source's vector-plus-index-map shape.
// Adding a duplicate id updates the existing record in place. Removal is
// swap-with-last.
type WindowList struct {
	order []model.WindowId
	byID  map[model.WindowId]*model.WindowInfo
}

// NewWindowList returns an empty window list.
func NewWindowList() *WindowList {
	return &WindowList{byID: make(map[model.WindowId]*model.WindowInfo)}
}

// Upsert inserts w if its id is new, or updates the existing record's
// fields in place if not. It returns true if this was an insert.
func (l *WindowList) Upsert(w model.WindowInfo) bool {
	if existing, ok := l.byID[w.ID]; ok {
		*existing = w
		return false
	}
	cp := w
	l.byID[w.ID] = &cp
	l.order = append(l.order, w.ID)
	return true
}

// Get returns the window record for id, if tracked.
func (l *WindowList) Get(id model.WindowId) (*model.WindowInfo, bool) {
	w, ok := l.byID[id]
	return w, ok
}

// Remove deletes id via swap-with-last. Returns false if id was not
// tracked.
func (l *WindowList) Remove(id model.WindowId) bool {
	if _, ok := l.byID[id]; !ok {
		return false
	}
	delete(l.byID, id)
	for i, oid := range l.order {
		if oid == id {
			last := len(l.order) - 1
			l.order[i] = l.order[last]
			l.order = l.order[:last]
			return true
		}
	}
	return true
}

// Len returns the number of tracked windows.
func (l *WindowList) Len() int { return len(l.order) }

// All returns every tracked window in current insertion order. The
// returned slice aliases no internal storage but the pointed-to records
// are live.
func (l *WindowList) All() []*model.WindowInfo {
	out := make([]*model.WindowInfo, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// GetByWorkspace returns the tracked windows of ws in the reverse of
// insertion order — a stand-in for "most-recently-added first", and part
// of the contract consumed by overflow rebalance (§4.E.4).
func (l *WindowList) GetByWorkspace(ws model.WorkspaceId) []*model.WindowInfo {
	out := make([]*model.WindowInfo, 0)
	for i := len(l.order) - 1; i >= 0; i-- {
		w := l.byID[l.order[i]]
		if w.Workspace == ws {
			out = append(out, w)
		}
	}
	return out
}

// MarkWorkspaceNeedsUpdate sets NeedsUpdate on every tracked window of ws.
// Adding, removing, or moving a window marks every remaining window of
// the affected workspace so the next layout tick reissues geometry for
// all of them (§4.B).
func (l *WindowList) MarkWorkspaceNeedsUpdate(ws model.WorkspaceId) {
	for _, id := range l.order {
		w := l.byID[id]
		if w.Workspace == ws {
			w.Flags.NeedsUpdate = true
		}
	}
}
