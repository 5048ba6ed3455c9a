package config_test

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridflux/gridflux/internal/config"
	"github.com/gridflux/gridflux/internal/model"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestLoadFillsDefaultsAndCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	loader := config.NewLoader(path, testLogger())
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.EqualValues(t, config.Defaults.MaxWorkspaces, cfg.MaxWorkspaces)
	assert.FileExists(t, path)
}

func TestAddLockedWorkspacePersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	loader := config.NewLoader(path, testLogger())
	cfg, err := loader.Load()
	require.NoError(t, err)

	require.NoError(t, loader.AddLockedWorkspace(cfg, 2))

	reloaded, err := config.NewLoader(path, testLogger()).Load()
	require.NoError(t, err)
	assert.True(t, reloaded.IsLocked(model.WorkspaceId(2)))
}

func TestRulesAddAndRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	loader := config.NewLoader(path, testLogger())
	cfg, err := loader.Load()
	require.NoError(t, err)

	require.NoError(t, loader.RulesAdd(cfg, "firefox", 3))
	assert.Len(t, cfg.Rules, 1)

	removed, err := loader.RulesRemove(cfg, "FIREFOX")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, cfg.Rules)
}
