package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/supaclipboard/internal/clip"
	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/history"
	"go.klb.dev/supaclipboard/internal/kv"
	"go.klb.dev/supaclipboard/internal/mock"
)

// withoutDaemon points the IPC socket at an unused path and replaces the
// system clipboard with b for the duration of the test.
func withoutDaemon(t *testing.T, b clip.Backend) *viper.Viper {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SUPACLIPBOARD_SOCKET", filepath.Join(dir, "none.sock"))

	prev := newBackend
	newBackend = func() clip.Backend { return b }
	t.Cleanup(func() { newBackend = prev })

	v := viper.New()
	v.Set("mime", "auto")
	v.Set("persist", true)
	v.Set("history-limit", history.DefaultLimit)
	v.Set("state-dir", filepath.Join(dir, "state"))
	return v
}

func TestCopyWithoutDaemonPersists(t *testing.T) {
	backend := &mock.Backend{}
	v := withoutDaemon(t, backend)

	require.NoError(t, runCopy(context.Background(), v, []byte("first")))
	require.NoError(t, runCopy(context.Background(), v, []byte("second")))
	assert.Equal(t, 2, backend.Writes)

	store, err := kv.NewFileStore(v.GetString("state-dir"))
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first"}, history.New(store, history.DefaultLimit, true).Texts())
}

func TestCopyWithoutDaemonFails(t *testing.T) {
	v := withoutDaemon(t, &mock.Backend{AvailableFn: func() bool { return false }})

	err := runCopy(context.Background(), v, []byte("x"))
	require.ErrorIs(t, err, errCopyFailed)
}

func TestPasteWithoutDaemon(t *testing.T) {
	backend := &mock.Backend{
		ReadFn: func() ([]clip.Item, error) { return []clip.Item{entry.NewText("on the clipboard")}, nil },
	}
	v := withoutDaemon(t, backend)

	got, err := paste(context.Background(), v)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "on the clipboard", got.Text())
}

func TestPasteWithoutDaemonEmpty(t *testing.T) {
	v := withoutDaemon(t, &mock.Backend{})

	got, err := paste(context.Background(), v)
	require.NoError(t, err)
	assert.Nil(t, got)
}
