//go:build windows

package win32

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// gestureState buffers precision-touchpad gesture samples. A production
// backend would subscribe to WM_POINTER / WM_GESTURE messages in the
// hidden message-only window's WndProc and push samples here; that wiring
// is future work (no window message pump exists in this translation unit
// yet), so the queue is currently always empty.
type gestureState struct {
	pending []model.GestureEvent
}

// GestureInit implements platform.Backend.
func (b *Backend) GestureInit(ctx context.Context) error { return nil }

// GestureCleanup implements platform.Backend.
func (b *Backend) GestureCleanup(ctx context.Context) error {
	b.gesture.pending = nil
	return nil
}

// GesturePoll implements platform.Backend, non-blocking.
func (b *Backend) GesturePoll(ctx context.Context) (model.GestureEvent, bool) {
	if len(b.gesture.pending) == 0 {
		return model.GestureEvent{}, false
	}
	ev := b.gesture.pending[0]
	b.gesture.pending = b.gesture.pending[1:]
	return ev, true
}
