//go:build !windows

package x11

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/gridflux/gridflux/internal/model"
)

// BorderAdd draws a colored border overlay around id by setting the core
// protocol border width/pixel directly — a lightweight alternative to a
// compositor-drawn decoration, matching the original's border.c
// translation unit.
func (b *Backend) BorderAdd(ctx context.Context, id model.WindowId, colorRGB uint32, thickness uint32) error {
	win := xproto.Window(id)
	err := xproto.ConfigureWindowChecked(b.xu.Conn(), win, xproto.ConfigWindowBorderWidth,
		[]uint32{thickness}).Check()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}

	if err := xproto.ChangeWindowAttributesChecked(b.xu.Conn(), win, xproto.CwBorderPixel,
		[]uint32{colorRGB}).Check(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPlatformError, err)
	}

	b.borders[id] = win
	return nil
}

// BorderRemove clears the border overlay for id.
func (b *Backend) BorderRemove(ctx context.Context, id model.WindowId) error {
	win, ok := b.borders[id]
	if !ok {
		return nil
	}
	delete(b.borders, id)
	return xproto.ConfigureWindowChecked(b.xu.Conn(), win, xproto.ConfigWindowBorderWidth,
		[]uint32{0}).Check()
}

// BorderUpdate reapplies cfg's border color/width to every window
// currently carrying a border.
func (b *Backend) BorderUpdate(ctx context.Context, cfg *model.Config) error {
	for id := range b.borders {
		thickness := uint32(2)
		if !cfg.EnableBorders {
			thickness = 0
		}
		if err := b.BorderAdd(ctx, id, cfg.BorderColor, thickness); err != nil {
			b.logger.WithError(err).Warn("border update failed for window")
		}
	}
	return nil
}

// BorderCleanup removes every tracked border overlay.
func (b *Backend) BorderCleanup(ctx context.Context) error {
	for id := range b.borders {
		if err := b.BorderRemove(ctx, id); err != nil {
			b.logger.WithError(err).Warn("border cleanup failed for window")
		}
	}
	return nil
}
