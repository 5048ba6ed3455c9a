package platform

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/gridflux/gridflux/internal/model"
)

// Detect selects a backend variant from the environment: Win32 on
// Windows, otherwise X11, failing unless XDG_SESSION_TYPE is x11.
// XDG_CURRENT_DESKTOP and GNOME_SHELL_SESSION_MODE are read only to be
// logged; no desktop-specific (KWin, GNOME) variant is selected. The
// engine itself never branches on these variables, per the Design Notes'
// warning against reproducing the source's KWin-leak-into-the-core
// pattern.
func Detect(logger *logrus.Logger) (Variant, error) {
	if runtime.GOOS == "windows" {
		return VariantWin32, nil
	}

	sessionType := os.Getenv("XDG_SESSION_TYPE")
	if sessionType != "x11" {
		return "", fmt.Errorf("%w: XDG_SESSION_TYPE=%q, only x11 sessions are supported", model.ErrInitializationFailed, sessionType)
	}

	desktop := os.Getenv("XDG_CURRENT_DESKTOP")
	gnomeMode := os.Getenv("GNOME_SHELL_SESSION_MODE")
	logger.WithFields(logrus.Fields{
		"xdg_current_desktop":      desktop,
		"gnome_shell_session_mode": gnomeMode,
	}).Debug("detected desktop environment")

	return VariantX11, nil
}

// Variant names the concrete backend a Detect call selected.
type Variant string

const (
	VariantX11   Variant = "x11"
	VariantWin32 Variant = "win32"
)
