// Package rules implements the window-exclusion filter (§4.F) and the
// per-class rule table lookup the engine consults at window-assignment
// time (§4.H). Grounded on internal/desktop/window_rules_engine.go's
// rule-evaluation shape, generalized from the teacher's scheduling rules
// to GridFlux's class-to-workspace placement rules.
package rules

import "strings"

// WindowType mirrors the EWMH-equivalent _NET_WM_WINDOW_TYPE values the
// platform backend reports.
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeDock
	TypeDesktop
	TypeToolbar
	TypeMenu
	TypeSplash
	TypeDropdownMenu
	TypePopupMenu
	TypeTooltip
	TypeNotification
	TypeUtility
	TypeCombo
)

// WindowState flags mirror the subset of EWMH-equivalent states the
// filter inspects.
type WindowState struct {
	SkipTaskbar bool
	Modal       bool
	Above       bool
}

// Candidate is the minimal view of a window the exclusion filter needs;
// it avoids coupling this package to model.WindowInfo so the filter can
// also run against a bare platform-reported record before it is tracked.
type Candidate struct {
	Class      string
	Type       WindowType
	State      WindowState
	Fullscreen bool
}

// guiClassMarker is the substring identifying GridFlux's own GUI window.
const guiClassMarker = "gridflux-gui"

// screenshotClasses is the fixed list of screenshot tool classes the
// filter excludes so a screenshot overlay is never tiled mid-capture.
var screenshotClasses = map[string]struct{}{
	"flameshot":       {},
	"gnome-screenshot": {},
	"spectacle":       {},
	"shutter":         {},
	"plasma":          {},
}

var excludedTypes = map[WindowType]struct{}{
	TypeDock:         {},
	TypeDesktop:      {},
	TypeToolbar:      {},
	TypeMenu:         {},
	TypeSplash:       {},
	TypeDropdownMenu: {},
	TypePopupMenu:    {},
	TypeTooltip:      {},
	TypeNotification: {},
	TypeUtility:      {},
	TypeCombo:        {},
}

// IsExcluded reports whether the core should ignore c entirely. It is
// consulted both at discovery and at every operation that would command
// the window (minimize, unminimize, set-geometry, border add), per §4.F.
func IsExcluded(c Candidate) bool {
	class := strings.ToLower(c.Class)

	if strings.Contains(class, guiClassMarker) {
		return true
	}
	if _, ok := screenshotClasses[class]; ok {
		return true
	}
	if c.State.SkipTaskbar || c.State.Modal || c.State.Above {
		return true
	}
	if _, ok := excludedTypes[c.Type]; ok {
		return true
	}
	if c.Type == TypeNormal && c.Fullscreen {
		return true
	}
	return false
}
