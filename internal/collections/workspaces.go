package collections

import "github.com/gridflux/gridflux/internal/model"

// WorkspaceList is an insertion-ordered sequence of workspace records
// with O(n) by-id lookup and swap-with-last removal. Business rules
// (ensure/find_free/lock semantics) live one layer up in
// internal/workspace; this type is storage only.
type WorkspaceList struct {
	order []model.WorkspaceId
	byID  map[model.WorkspaceId]*model.WorkspaceInfo
}

// NewWorkspaceList returns an empty workspace list.
func NewWorkspaceList() *WorkspaceList {
	return &WorkspaceList{byID: make(map[model.WorkspaceId]*model.WorkspaceInfo)}
}

// Upsert inserts ws if its id is new, else replaces the stored record.
func (l *WorkspaceList) Upsert(ws model.WorkspaceInfo) bool {
	if existing, ok := l.byID[ws.ID]; ok {
		*existing = ws
		return false
	}
	cp := ws
	l.byID[ws.ID] = &cp
	l.order = append(l.order, ws.ID)
	return true
}

// Get returns the workspace record for id, if it exists.
func (l *WorkspaceList) Get(id model.WorkspaceId) (*model.WorkspaceInfo, bool) {
	ws, ok := l.byID[id]
	return ws, ok
}

// Remove deletes id via swap-with-last.
func (l *WorkspaceList) Remove(id model.WorkspaceId) bool {
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

// Len returns the number of materialized workspaces.
func (l *WorkspaceList) Len() int { return len(l.order) }

// All returns every workspace record in current insertion order.
func (l *WorkspaceList) All() []*model.WorkspaceInfo {
	out := make([]*model.WorkspaceInfo, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

// MaxID returns the highest materialized workspace id, or 0 if empty.
func (l *WorkspaceList) MaxID() model.WorkspaceId {
	var max model.WorkspaceId
	for _, id := range l.order {
		if id > max {
			max = id
		}
	}
	return max
}
