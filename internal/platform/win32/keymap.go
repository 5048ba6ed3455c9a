//go:build windows

package win32

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

var (
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
)

const (
	modWin = 0x0008

	hotkeyIDPrev = 1
	hotkeyIDNext = 2

	vkLeft  = 0x25
	vkRight = 0x27
)

// keymapState tracks discrete workspace-switch actions queued by
// pushHotkey since the last poll.
type keymapState struct {
	pending []model.KeyAction
}

// KeymapInit registers the fixed Win+Left / Win+Right workspace switch
// hotkeys with the OS.
func (b *Backend) KeymapInit(ctx context.Context) error {
	procRegisterHotKey.Call(0, hotkeyIDPrev, modWin, vkLeft)
	procRegisterHotKey.Call(0, hotkeyIDNext, modWin, vkRight)
	return nil
}

// KeymapCleanup unregisters the workspace switch hotkeys.
func (b *Backend) KeymapCleanup(ctx context.Context) error {
	procUnregisterHotKey.Call(0, hotkeyIDPrev)
	procUnregisterHotKey.Call(0, hotkeyIDNext)
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

// pushHotkey maps a WM_HOTKEY id to its action and queues it for
// KeymapPoll. Nothing in this package calls it: no message loop reads
// WM_HOTKEY, so KeymapPoll reports no actions.
func (b *Backend) pushHotkey(id uintptr) {
	switch id {
	case hotkeyIDPrev:
		b.keymap.pending = append(b.keymap.pending, model.KeyActionWorkspacePrev)
	case hotkeyIDNext:
		b.keymap.pending = append(b.keymap.pending, model.KeyActionWorkspaceNext)
	}
}
