package engine

import (
	"context"
	"math"

	"github.com/gridflux/gridflux/internal/model"
)

// gestureSwipeThreshold is the fixed 200px accumulated-travel threshold
// below which a swipe is ignored (§4.E.6).
const gestureSwipeThreshold = 200.0

// drainGesture implements §4.E.6: drain the backend's gesture queue and,
// on a completed three-finger horizontal swipe past the threshold, cycle
// focus among maximized windows. Pre-event per the tick order (called
// from watch's caller before handleEvents — see tick()).
func (e *Engine) drainGesture(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "engine.Engine.drainGesture")
	defer span.End()

	for {
		ev, ok := e.backend.GesturePoll(ctx)
		if !ok {
			return
		}
		if ev.Type != model.GestureSwipeEnd || ev.Fingers != 3 {
			continue
		}
		if math.Abs(float64(ev.TotalDx)) < gestureSwipeThreshold {
			continue
		}
		e.cycleMaximizedWindow(ctx, ev.TotalDx > 0)
	}
}

// cycleMaximizedWindow minimizes the currently-focused maximized window
// and unminimizes its neighbor in the maximized set, wrapping around
// modularly. forward selects next (positive Δx) vs. previous.
func (e *Engine) cycleMaximizedWindow(ctx context.Context, forward bool) {
	maximized := make([]*model.WindowInfo, 0)
	for _, w := range e.windows.All() {
		if w.Flags.IsMaximized {
			maximized = append(maximized, w)
		}
	}
	if len(maximized) < 2 {
		return
	}

	focused, ok := e.backend.GetFocused(ctx)
	if !ok {
		return
	}

	idx := -1
	for i, w := range maximized {
		if w.ID == focused {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	var next int
	if forward {
		next = (idx + 1) % len(maximized)
	} else {
		next = (idx - 1 + len(maximized)) % len(maximized)
	}

	if err := e.backend.Minimize(ctx, maximized[idx].ID); err == nil {
		maximized[idx].Flags.IsMinimized = true
	} else {
		e.recordBackendFailure("minimize")
	}
	if err := e.backend.Unminimize(ctx, maximized[next].ID); err == nil {
		maximized[next].Flags.IsMinimized = false
	} else {
		e.recordBackendFailure("unminimize")
	}
}
