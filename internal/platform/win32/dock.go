//go:build windows

package win32

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	shell32          = windows.NewLazySystemDLL("shell32.dll")
	procSHAppBarMessage = shell32.NewProc("SHAppBarMessage")
)

const (
	abmSetState = 0x0000000A
	absAutoHide = 0x0000001
	absAlwaysOnTop = 0x0000002
)

type appBarData struct {
	cbSize           uint32
	hWnd             windows.Handle
	uCallbackMessage uint32
	uEdge            uint32
	rc               win32Rect
	lParam           uintptr
}

// DockHide implements platform.Backend by requesting the taskbar
// auto-hide via SHAppBarMessage, the Win32 equivalent of the spec's
// backend.dock_hide() capability (§6.1).
func (b *Backend) DockHide(ctx context.Context) error {
	data := appBarData{uEdge: 0, lParam: absAutoHide}
	data.cbSize = uint32(unsafe.Sizeof(data))
	procSHAppBarMessage.Call(abmSetState, uintptr(unsafe.Pointer(&data)))
	return nil
}

// DockRestore implements platform.Backend.
func (b *Backend) DockRestore(ctx context.Context) error {
	data := appBarData{uEdge: 0, lParam: absAlwaysOnTop}
	data.cbSize = uint32(unsafe.Sizeof(data))
	procSHAppBarMessage.Call(abmSetState, uintptr(unsafe.Pointer(&data)))
	return nil
}
