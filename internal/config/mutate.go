package config

import (
	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/rules"
)

// AddLockedWorkspace mirrors ws into cfg's locked set and persists it.
// The core never mutates the snapshot except through these dedicated
// helpers (§4.H).
func (l *Loader) AddLockedWorkspace(cfg *model.Config, ws model.WorkspaceId) error {
	cfg.LockedWorkspaces[ws] = struct{}{}
	return l.Save(cfg)
}

// RemoveLockedWorkspace clears ws from cfg's locked set and persists it.
func (l *Loader) RemoveLockedWorkspace(cfg *model.Config, ws model.WorkspaceId) error {
	delete(cfg.LockedWorkspaces, ws)
	return l.Save(cfg)
}

// RulesAdd installs or replaces a class->workspace rule and persists it.
func (l *Loader) RulesAdd(cfg *model.Config, class string, ws model.WorkspaceId) error {
	updated, err := rules.Add(cfg.Rules, class, ws)
	if err != nil {
		return err
	}
	cfg.Rules = updated
	return l.Save(cfg)
}

// RulesRemove deletes the rule for class, if present, and persists it.
func (l *Loader) RulesRemove(cfg *model.Config, class string) (bool, error) {
	updated, removed := rules.Remove(cfg.Rules, class)
	if !removed {
		return false, nil
	}
	cfg.Rules = updated
	return true, l.Save(cfg)
}
