//go:build !windows

package x11

import (
	"context"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// DockHide auto-hides desktop panels/docks by requesting they carry
// _NET_WM_STATE_BELOW, matching the spec's "dock auto-hide on maximize"
// behavior (§4.E.5). GridFlux does not own the panel process; this is a
// best-effort EWMH request, not a direct window move.
func (b *Backend) DockHide(ctx context.Context) error {
	docks, err := b.dockWindows()
	if err != nil {
		return err
	}
	for _, win := range docks {
		_ = ewmh.WmStateReq(b.xu, win, ewmh.StateAdd, "_NET_WM_STATE_BELOW")
	}
	return nil
}

// DockRestore reverses DockHide.
func (b *Backend) DockRestore(ctx context.Context) error {
	docks, err := b.dockWindows()
	if err != nil {
		return err
	}
	for _, win := range docks {
		_ = ewmh.WmStateReq(b.xu, win, ewmh.StateRemove, "_NET_WM_STATE_BELOW")
	}
	return nil
}

func (b *Backend) dockWindows() ([]xproto.Window, error) {
	ids, err := ewmh.ClientListGet(b.xu)
	if err != nil {
		return nil, err
	}
	var docks []xproto.Window
	for _, win := range ids {
		types, _ := ewmh.WmWindowTypeGet(b.xu, win)
		for _, t := range types {
			if t == "_NET_WM_WINDOW_TYPE_DOCK" {
				docks = append(docks, win)
				break
			}
		}
	}
	return docks, nil
}
