//go:build !windows

package x11

import (
	"context"

	"github.com/gridflux/gridflux/internal/model"
)

// gestureState buffers touchpad gesture samples for GesturePoll. The
// backend subscribes to no XInput2 gesture events, so the queue stays
// empty; it keeps the poll contract so the engine's gesture handling
// (§4.E.6) is backend-agnostic.
type gestureState struct {
	pending []model.GestureEvent
}

// GestureInit implements platform.Backend. A full XInput2 gesture grab
// is out of scope for this translation unit's responsibility split; it
// would subscribe to touchpad gesture events here.
func (b *Backend) GestureInit(ctx context.Context) error {
	return nil
}

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

// pushGesture appends a gesture sample to the poll queue. Nothing in
// this package calls it, so GesturePoll reports no events.
func (b *Backend) pushGesture(ev model.GestureEvent) {
	b.gesture.pending = append(b.gesture.pending, ev)
}
