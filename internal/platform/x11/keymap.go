//go:build !windows

package x11

import (
	"context"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/gridflux/gridflux/internal/model"
)

// keymapState tracks the grabbed workspace-switch keybindings and the
// discrete actions they have produced since the last poll, mirroring the
// original's keymap.c translation unit.
type keymapState struct {
	pending []model.KeyAction
}

const (
	modSuper        = xproto.ModMask4 // the super key's modifier (Mod4)
	keycodeWSPrev   = 23
	keycodeWSNext   = 24
)

// KeymapInit grabs the fixed workspace-prev/workspace-next keybindings
// on the root window.
func (b *Backend) KeymapInit(ctx context.Context) error {
	root := b.xu.RootWin()
	for _, code := range []xproto.Keycode{keycodeWSPrev, keycodeWSNext} {
		if err := xproto.GrabKeyChecked(b.xu.Conn(), false, root, uint16(modSuper), code,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check(); err != nil {
			b.logger.WithError(err).Warn("failed to grab workspace switch key")
		}
	}
	return nil
}

// KeymapCleanup ungrabs the workspace switch keybindings.
func (b *Backend) KeymapCleanup(ctx context.Context) error {
	root := b.xu.RootWin()
	for _, code := range []xproto.Keycode{keycodeWSPrev, keycodeWSNext} {
		_ = xproto.UngrabKeyChecked(b.xu.Conn(), code, root, uint16(modSuper)).Check()
	}
	b.keymap.pending = nil
	return nil
}

// KeymapPoll implements platform.Backend, non-blocking.
func (b *Backend) KeymapPoll(ctx context.Context) (model.KeyAction, bool) {
	if len(b.keymap.pending) == 0 {
		return model.KeyActionNone, false
	}
	a := b.keymap.pending[0]
	b.keymap.pending = b.keymap.pending[1:]
	return a, true
}

// pushKeyAction maps a grabbed keycode to its action and queues it for
// KeymapPoll. Nothing in this package calls it: the backend runs no X
// event loop reading KeyPress events, so KeymapPoll reports no actions.
func (b *Backend) pushKeyAction(code xproto.Keycode) {
	switch code {
	case keycodeWSPrev:
		b.keymap.pending = append(b.keymap.pending, model.KeyActionWorkspacePrev)
	case keycodeWSNext:
		b.keymap.pending = append(b.keymap.pending, model.KeyActionWorkspaceNext)
	}
}
