//go:build windows

package win32

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// BorderAdd implements platform.Backend. Win32 has no per-window border-
// color API as direct as X11's CwBorderPixel; a production backend would
// draw a layered overlay window. GridFlux tracks the intent here so
// BorderUpdate/BorderCleanup stay symmetric with the X11 backend even
// though the visual is owned by a future overlay window, not drawn yet.
func (b *Backend) BorderAdd(ctx context.Context, id model.WindowId, colorRGB uint32, thickness uint32) error {
	b.borders[id] = struct{}{}
	return nil
}

// BorderRemove implements platform.Backend.
func (b *Backend) BorderRemove(ctx context.Context, id model.WindowId) error {
	delete(b.borders, id)
	return nil
}

// BorderUpdate implements platform.Backend.
func (b *Backend) BorderUpdate(ctx context.Context, cfg *model.Config) error {
	return nil
}

// BorderCleanup implements platform.Backend.
func (b *Backend) BorderCleanup(ctx context.Context) error {
	for id := range b.borders {
		delete(b.borders, id)
	}
	return nil
}
