package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/model"
	"github.com/gridflux/gridflux/internal/rules"
)

func TestIsExcludedScreenshotTool(t *testing.T) {
	assert.True(t, rules.IsExcluded(rules.Candidate{Class: "Flameshot"}))
}

func TestIsExcludedOwnGUI(t *testing.T) {
	assert.True(t, rules.IsExcluded(rules.Candidate{Class: "org.gridflux-gui.Main"}))
}

func TestIsExcludedSkipTaskbar(t *testing.T) {
	assert.True(t, rules.IsExcluded(rules.Candidate{Class: "xterm", State: rules.WindowState{SkipTaskbar: true}}))
}

func TestIsExcludedDockType(t *testing.T) {
	assert.True(t, rules.IsExcluded(rules.Candidate{Class: "panel", Type: rules.TypeDock}))
}

func TestIsExcludedFullscreenNormal(t *testing.T) {
	assert.True(t, rules.IsExcluded(rules.Candidate{Class: "mpv", Type: rules.TypeNormal, Fullscreen: true}))
}

func TestIsExcludedOrdinaryWindowPasses(t *testing.T) {
	assert.False(t, rules.IsExcluded(rules.Candidate{Class: "firefox", Type: rules.TypeNormal}))
}

func TestRuleLookupCaseInsensitive(t *testing.T) {
	set := []model.WindowRule{{Class: "firefox", Workspace: 3}}
	ws, ok := rules.Lookup(set, "Firefox")
	require.True(t, ok)
	assert.EqualValues(t, 3, ws)
}

func TestRuleAddReplacesExisting(t *testing.T) {
	set := []model.WindowRule{{Class: "firefox", Workspace: 3}}
	set, err := rules.Add(set, "firefox", 5)
	require.NoError(t, err)
	ws, _ := rules.Lookup(set, "firefox")
	assert.EqualValues(t, 5, ws)
}

func TestRuleAddFailsWhenTableFull(t *testing.T) {
	var set []model.WindowRule
	for i := 0; i < rules.DefaultTableCapacity; i++ {
		var err error
		set, err = rules.Add(set, string(rune('a'+i%26))+string(rune('0'+i/26)), model.WorkspaceId(i+1))
		require.NoError(t, err)
	}
	_, err := rules.Add(set, "overflow", 1)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestRuleRemove(t *testing.T) {
	set := []model.WindowRule{{Class: "firefox", Workspace: 3}}
	set, removed := rules.Remove(set, "FIREFOX")
	assert.True(t, removed)
	assert.Empty(t, set)
}
