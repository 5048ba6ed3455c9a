package rules

import (
	"fmt"
	"strings"

	"github.com/gridflux/gridflux/internal/model"
)

// DefaultTableCapacity is the bounded rule table size the spec assumes
// when describing rule lookup as O(64).
const DefaultTableCapacity = 64

// Lookup performs a case-insensitive linear scan of rules for class,
// returning the first match's workspace. Bounded table size keeps this
// O(64) as the spec requires.
func Lookup(ruleset []model.WindowRule, class string) (model.WorkspaceId, bool) {
	class = strings.ToLower(class)
	for _, r := range ruleset {
		if strings.ToLower(r.Class) == class {
			return r.Workspace, true
		}
	}
	return 0, false
}

// Add appends a rule to ruleset, replacing any existing rule for the
// same class. Fails once the table reaches DefaultTableCapacity and the
// class is new.
func Add(ruleset []model.WindowRule, class string, ws model.WorkspaceId) ([]model.WindowRule, error) {
	folded := strings.ToLower(class)
	for i, r := range ruleset {
		if strings.ToLower(r.Class) == folded {
			ruleset[i].Workspace = ws
			return ruleset, nil
		}
	}
	if len(ruleset) >= DefaultTableCapacity {
		return ruleset, fmt.Errorf("%w: rule table full", model.ErrInvalidParameter)
	}
	return append(ruleset, model.WindowRule{Class: class, Workspace: ws}), nil
}

// Remove deletes the rule for class, if present. Reports whether
// anything was removed.
func Remove(ruleset []model.WindowRule, class string) ([]model.WindowRule, bool) {
	folded := strings.ToLower(class)
	for i, r := range ruleset {
		if strings.ToLower(r.Class) == folded {
			return append(ruleset[:i], ruleset[i+1:]...), true
		}
	}
	return ruleset, false
}
