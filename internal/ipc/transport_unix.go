//go:build !windows

package ipc

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// socketTimeout bounds each request/response exchange (§6.2).
const socketTimeout = 5 * time.Second

// UnixTransport listens on the Unix-domain socket described in §6.2:
// $XDG_RUNTIME_DIR/gridflux.sock, falling back to
// /tmp/gridflux_<uid><DISPLAY>-socket, mode 0600, with peer UID
// verification and a non-blocking accept suited to the single-threaded
// control loop.
type UnixTransport struct {
	listener *net.UnixListener
	path     string
	logger   *logrus.Logger
}

// SocketPath resolves the socket path per §6.2.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "gridflux.sock")
	}
	return fmt.Sprintf("/tmp/gridflux_%d%s-socket", os.Getuid(), os.Getenv("DISPLAY"))
}

// NewUnixTransport binds and listens on SocketPath(), removing any stale
// socket file left by a prior crashed instance first.
func NewUnixTransport(logger *logrus.Logger) (*UnixTransport, error) {
	path := SocketPath()
	_ = os.Remove(path)

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, err
	}
	l, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		l.Close()
		return nil, err
	}

	return &UnixTransport{listener: l, path: path, logger: logger}, nil
}

// Close removes the listening socket and its backing file.
func (t *UnixTransport) Close() error {
	err := t.listener.Close()
	_ = os.Remove(t.path)
	return err
}

// Accept performs one non-blocking accept attempt, returning ok=false if
// nothing is pending — the shape the engine's IPC-drain phase (§4.E.8)
// polls every tick.
func (t *UnixTransport) Accept() (*net.UnixConn, bool, error) {
	_ = t.listener.SetDeadline(time.Now())
	conn, err := t.listener.AcceptUnix()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, false, nil
		}
		return nil, false, err
	}
	return conn, true, nil
}

// VerifyPeer checks the connecting process's UID equals the caller's own
// (§6.2: "peer credentials verified to equal the caller's UID").
func VerifyPeer(conn *net.UnixConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var cred *syscall.Ucred
	var credErr error
	err = raw.Control(func(fd uintptr) {
		cred, credErr = syscall.GetsockoptUcred(int(fd), syscall.SOL_SOCKET, syscall.SO_PEERCRED)
	})
	if err != nil {
		return err
	}
	if credErr != nil {
		return credErr
	}
	if cred.Uid != uint32(os.Getuid()) {
		return fmt.Errorf("ipc: peer uid %d does not match server uid %d", cred.Uid, os.Getuid())
	}
	return nil
}

// ServeOne reads one request from conn, dispatches it, and writes the
// response, applying socketTimeout to both halves of the exchange.
func ServeOne(conn *net.UnixConn, d *Dispatcher) {
	defer conn.Close()

	if err := VerifyPeer(conn); err != nil {
		resp := Response{Status: StatusErrorPermission, Message: err.Error()}
		_ = conn.SetWriteDeadline(time.Now().Add(socketTimeout))
		conn.Write(resp.Encode())
		return
	}

	_ = conn.SetReadDeadline(time.Now().Add(socketTimeout))
	buf := make([]byte, 8*1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}

	resp := d.Dispatch(string(buf[:n]))

	_ = conn.SetWriteDeadline(time.Now().Add(socketTimeout))
	conn.Write(resp.Encode())
}
