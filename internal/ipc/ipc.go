// Package ipc locates the local Unix socket on which a running
// supaclipboard daemon serves its gRPC API. CLI sub-commands probe for it
// and fall back to operating on the clipboard directly when it is absent.
package ipc

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

const socketName = "supaclipboard.sock"

// ErrAlreadyRunning is returned by Listen when another daemon is serving on
// the socket.
var ErrAlreadyRunning = errors.New("supaclipboard daemon already running")

// SocketPath returns the IPC socket path:
//
//   - $SUPACLIPBOARD_SOCKET if set
//   - $XDG_RUNTIME_DIR/supaclipboard.sock on Linux desktops
//   - $TMPDIR/supaclipboard.sock otherwise
func SocketPath() string {
	if s := os.Getenv("SUPACLIPBOARD_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(os.TempDir(), socketName)
}

// IsRunning reports whether a daemon appears to be listening on the IPC
// socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.DialTimeout("unix", SocketPath(), 500*time.Millisecond)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a net.Listener on the IPC socket path. It fails with
// ErrAlreadyRunning if a daemon answers on the path; otherwise a leftover
// socket file is removed first. The socket is restricted to the current user.
func Listen() (net.Listener, error) {
	path := SocketPath()
	if IsRunning() {
		return nil, fmt.Errorf("%s: %w", path, ErrAlreadyRunning)
	}
	// Remove stale socket from a previous (crashed) run.
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(path, 0600)
	return ln, nil
}
