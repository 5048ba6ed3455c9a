// Package config loads and persists the GridFlux configuration snapshot
// (§3 Config snapshot, §6.4 persisted state). Grounded on the teacher's
// pkg/config.Manager: a *viper.Viper wrapped by a thin Loader, generalized
// from the teacher's multi-service YAML config to GridFlux's single JSON
// document. Unlike the teacher's push-based WatchConfig callback, the
// engine's own reload-config phase (§4.E.1) stays authoritative via an
// explicit per-tick mtime stat — Watch here only feeds an optional
// notification channel a daemon can select on for low-latency UX.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/gridflux/gridflux/internal/model"
)

// fileSchema is the on-disk representation of model.Config. Locked
// workspaces are stored as a sorted slice since JSON has no set type.
type fileSchema struct {
	MaxWindowsPerWorkspace uint32             `mapstructure:"max_windows_per_workspace" json:"max_windows_per_workspace"`
	MaxWorkspaces          uint32             `mapstructure:"max_workspaces" json:"max_workspaces"`
	DefaultPadding         int32              `mapstructure:"default_padding" json:"default_padding"`
	MinWindowSize          uint32             `mapstructure:"min_window_size" json:"min_window_size"`
	BorderColor            uint32             `mapstructure:"border_color" json:"border_color"`
	EnableBorders          bool               `mapstructure:"enable_borders" json:"enable_borders"`
	LockedWorkspaces       []int32            `mapstructure:"locked_workspaces" json:"locked_workspaces"`
	Rules                  []ruleSchema       `mapstructure:"rules" json:"rules"`
}

type ruleSchema struct {
	Class     string `mapstructure:"class" json:"class"`
	Workspace int32  `mapstructure:"workspace" json:"workspace"`
}

// Defaults mirror the end-to-end scenario fixtures in spec.md §8.
var Defaults = fileSchema{
	MaxWindowsPerWorkspace: 3,
	MaxWorkspaces:          32,
	DefaultPadding:         10,
	MinWindowSize:          10,
	BorderColor:            0x00F49D2A,
	EnableBorders:          true,
}

// Loader wraps a *viper.Viper bound to the on-disk config file and hands
// back fully-formed model.Config snapshots.
type Loader struct {
	v      *viper.Viper
	path   string
	logger *logrus.Logger
}

// DefaultPath returns $XDG_CONFIG_HOME/gridflux/config.json on Unix, or
// %APPDATA%\gridflux\config.json on Windows (§6.4).
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gridflux", "config.json")
		}
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "gridflux", "config.json")
}

// NewLoader constructs a Loader bound to path ("" selects DefaultPath()).
func NewLoader(path string, logger *logrus.Logger) *Loader {
	if path == "" {
		path = DefaultPath()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	return &Loader{v: v, path: path, logger: logger}
}

// Path returns the file path this loader reads and rewrites.
func (l *Loader) Path() string { return l.path }

// Load reads the config file, fills any field missing from defaults,
// rewrites the file if it did, and returns an immutable snapshot.
func (l *Loader) Load() (*model.Config, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInitializationFailed, err)
	}

	schema := Defaults
	rewrite := false

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		rewrite = true
	} else if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInitializationFailed, err)
	} else {
		var onDisk fileSchema
		if err := l.v.Unmarshal(&onDisk); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInitializationFailed, err)
		}
		schema, rewrite = fillDefaults(onDisk)
		if !l.v.IsSet("default_padding") {
			schema.DefaultPadding = Defaults.DefaultPadding
			rewrite = true
		}
		if !l.v.IsSet("enable_borders") {
			schema.EnableBorders = Defaults.EnableBorders
			rewrite = true
		}
	}

	if rewrite {
		if err := l.write(schema); err != nil {
			l.logger.WithError(err).Warn("failed to rewrite config with filled defaults")
		}
	}

	return toSnapshot(schema), nil
}

// fillDefaults copies from Defaults each of max_windows_per_workspace,
// max_workspaces, min_window_size and border_color that is zero in onDisk,
// and reports whether anything changed. Load fills a missing
// default_padding or enable_borders itself, since zero and false are
// usable values for those two.
func fillDefaults(onDisk fileSchema) (fileSchema, bool) {
	changed := false
	if onDisk.MaxWindowsPerWorkspace == 0 {
		onDisk.MaxWindowsPerWorkspace = Defaults.MaxWindowsPerWorkspace
		changed = true
	}
	if onDisk.MaxWorkspaces == 0 {
		onDisk.MaxWorkspaces = Defaults.MaxWorkspaces
		changed = true
	}
	if onDisk.MinWindowSize == 0 {
		onDisk.MinWindowSize = Defaults.MinWindowSize
		changed = true
	}
	if onDisk.BorderColor == 0 {
		onDisk.BorderColor = Defaults.BorderColor
		changed = true
	}
	return onDisk, changed
}

func (l *Loader) write(schema fileSchema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0o600)
}

func toSnapshot(schema fileSchema) *model.Config {
	locked := make(map[model.WorkspaceId]struct{}, len(schema.LockedWorkspaces))
	for _, id := range schema.LockedWorkspaces {
		locked[model.WorkspaceId(id)] = struct{}{}
	}
	rules := make([]model.WindowRule, 0, len(schema.Rules))
	for _, r := range schema.Rules {
		rules = append(rules, model.WindowRule{Class: r.Class, Workspace: model.WorkspaceId(r.Workspace)})
	}

	mtime := time.Now()
	cfg := &model.Config{
		MaxWindowsPerWorkspace: schema.MaxWindowsPerWorkspace,
		MaxWorkspaces:          schema.MaxWorkspaces,
		DefaultPadding:         schema.DefaultPadding,
		MinWindowSize:          schema.MinWindowSize,
		BorderColor:            schema.BorderColor,
		EnableBorders:          schema.EnableBorders,
		LockedWorkspaces:       locked,
		Rules:                  rules,
		LastModified:           mtime,
	}
	return cfg
}

func fromSnapshot(cfg *model.Config) fileSchema {
	locked := make([]int32, 0, len(cfg.LockedWorkspaces))
	for id := range cfg.LockedWorkspaces {
		locked = append(locked, int32(id))
	}
	sort.Slice(locked, func(i, j int) bool { return locked[i] < locked[j] })
	rules := make([]ruleSchema, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, ruleSchema{Class: r.Class, Workspace: int32(r.Workspace)})
	}
	return fileSchema{
		MaxWindowsPerWorkspace: cfg.MaxWindowsPerWorkspace,
		MaxWorkspaces:          cfg.MaxWorkspaces,
		DefaultPadding:         cfg.DefaultPadding,
		MinWindowSize:          cfg.MinWindowSize,
		BorderColor:            cfg.BorderColor,
		EnableBorders:          cfg.EnableBorders,
		LockedWorkspaces:       locked,
		Rules:                  rules,
	}
}

// Save writes cfg back to disk — used by the §4.H write-through helpers
// (add/remove locked workspace, rule add/remove).
func (l *Loader) Save(cfg *model.Config) error {
	return l.write(fromSnapshot(cfg))
}

// Mtime stats the config file's modification time; used by the engine's
// reload-config phase (§4.E.1) as the authoritative reload trigger.
func (l *Loader) Mtime() (time.Time, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Watch starts an fsnotify watch on the config file and returns a channel
// that receives a signal on every write event. This is an optional,
// additive notification the daemon may select on for faster UX; it is
// never the engine's authoritative reload trigger (see Mtime).
func (l *Loader) Watch() (<-chan struct{}, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return nil, nil, fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name == l.path && (ev.Op&(fsnotify.Write|fsnotify.Create) != 0) {
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.WithError(err).Warn("config watch error")
			}
		}
	}()

	return ch, func() { watcher.Close() }, nil
}
