package ipc_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/supaclipboard/internal/ipc"
)

func TestSocketPath(t *testing.T) {
	t.Setenv("SUPACLIPBOARD_SOCKET", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, filepath.Join("/run/user/1000", "supaclipboard.sock"), ipc.SocketPath())

	t.Setenv("SUPACLIPBOARD_SOCKET", "/custom.sock")
	assert.Equal(t, "/custom.sock", ipc.SocketPath())
}

func TestListenAndIsRunning(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets")
	}
	// Unix socket paths are length-limited; keep it short.
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	t.Setenv("SUPACLIPBOARD_SOCKET", filepath.Join(dir, "s.sock"))

	assert.False(t, ipc.IsRunning())

	ln, err := ipc.Listen()
	require.NoError(t, err)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	assert.True(t, ipc.IsRunning())
	require.NoError(t, ln.Close())
	assert.False(t, ipc.IsRunning())
}

func TestListenRefusesLiveSocket(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets")
	}
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	path := filepath.Join(dir, "s.sock")
	t.Setenv("SUPACLIPBOARD_SOCKET", path)

	first, err := ipc.Listen()
	require.NoError(t, err)
	defer first.Close()
	go func() {
		for {
			c, err := first.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	_, err = ipc.Listen()
	require.ErrorIs(t, err, ipc.ErrAlreadyRunning)
	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
	assert.True(t, ipc.IsRunning())
}

func TestListenReplacesStaleSocket(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix sockets")
	}
	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)
	path := filepath.Join(dir, "s.sock")
	t.Setenv("SUPACLIPBOARD_SOCKET", path)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	ln, err := ipc.Listen()
	require.NoError(t, err)
	require.NoError(t, ln.Close())
}
