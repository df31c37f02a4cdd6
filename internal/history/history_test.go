package history_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/history"
	"go.klb.dev/supaclipboard/internal/kv"
	"go.klb.dev/supaclipboard/internal/mock"
)

func TestRecordEvictsOldest(t *testing.T) {
	t.Parallel()

	s := history.New(nil, 2, false)
	for _, text := range []string{"first", "second", "third"} {
		s.Record(entry.NewText(text))
	}

	if diff := cmp.Diff([]string{"third", "second"}, s.Texts()); diff != "" {
		t.Errorf("Texts() mismatch (-want +got):\n%s", diff)
	}
}

func TestLengthNeverExceedsLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "limit one", limit: 1, want: 1},
		{name: "limit five", limit: 5, want: 5},
		{name: "default limit", limit: 0, want: history.DefaultLimit},
		{name: "negative limit", limit: -3, want: history.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := history.New(nil, tt.limit, false)
			assert.Equal(t, tt.want, s.Limit())
			for i := range 25 {
				text := string(rune('a' + i))
				s.Record(entry.NewText(text))
				assert.LessOrEqual(t, s.Len(), tt.want)
				assert.Equal(t, text, s.Texts()[0], "most recent entry comes first")
			}
			assert.Equal(t, tt.want, s.Len())
		})
	}
}

func TestPersistWritesOnceWithFixedKey(t *testing.T) {
	t.Parallel()

	var writes []string
	store := &mock.Store{
		GetFn: func(string) (string, error) { return "", kv.ErrNotFound },
		SetFn: func(key, value string) error {
			assert.Equal(t, history.StorageKey, key)
			writes = append(writes, value)
			return nil
		},
	}

	s := history.New(store, 10, true)
	s.Record(entry.NewText("persisted text"))

	assert.Equal(t, []string{`["persisted text"]`}, writes)
}

func TestNoPersistNeverTouchesStore(t *testing.T) {
	t.Parallel()

	store := &mock.Store{
		GetFn: func(string) (string, error) {
			t.Fatal("Get must not be called when persistence is off")
			return "", nil
		},
		SetFn: func(string, string) error {
			t.Fatal("Set must not be called when persistence is off")
			return nil
		},
	}

	s := history.New(store, 10, false)
	s.Record(entry.NewText("a"))
	s.Record(entry.NewText("b"))
	assert.Equal(t, []string{"b", "a"}, s.Texts())
}

func TestReloadRoundTrip(t *testing.T) {
	t.Parallel()

	store := kv.NewMemory()
	first := history.New(store, 3, true)
	for _, text := range []string{"one", "two", "three", "four"} {
		first.Record(entry.NewText(text))
	}

	second := history.New(store, 3, true)
	if diff := cmp.Diff(first.Texts(), second.Texts()); diff != "" {
		t.Errorf("reloaded history mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"four", "three", "two"}, second.Texts())
}

func TestLoadTruncatesToLimit(t *testing.T) {
	t.Parallel()

	store := kv.NewMemory()
	require.NoError(t, store.Set(history.StorageKey, `["a","b","c","d"]`))

	s := history.New(store, 2, true)
	assert.Equal(t, []string{"a", "b"}, s.Texts())
}

func TestLoadFailuresStartEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		getFn func(string) (string, error)
	}{
		{name: "absent", getFn: func(string) (string, error) { return "", kv.ErrNotFound }},
		{name: "corrupt", getFn: func(string) (string, error) { return "{not json", nil }},
		{name: "wrong shape", getFn: func(string) (string, error) { return `{"a":1}`, nil }},
		{name: "store error", getFn: func(string) (string, error) { return "", errors.New("disk on fire") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := &mock.Store{GetFn: tt.getFn, SetFn: func(string, string) error { return nil }}
			s := history.New(store, 5, true)
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	t.Parallel()

	store := &mock.Store{
		GetFn: func(string) (string, error) { return "", kv.ErrNotFound },
		SetFn: func(string, string) error { return errors.New("read-only filesystem") },
	}

	s := history.New(store, 5, true)
	s.Record(entry.NewText("kept"))
	assert.Equal(t, []string{"kept"}, s.Texts())
}

func TestPersistFiltersNonPlainText(t *testing.T) {
	t.Parallel()

	store := kv.NewMemory()
	s := history.New(store, 5, true)
	s.Record(entry.NewText("plain"))
	s.Record(entry.NewHTML("<b>html</b>"))
	s.Record(entry.NewImage([]byte("\x89PNG\r\n\x1a\n")))

	assert.Equal(t, 3, s.Len())

	raw, err := store.Get(history.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["plain"]`, raw)
}

func TestEntriesIsACopy(t *testing.T) {
	t.Parallel()

	s := history.New(nil, 5, false)
	s.Record(entry.NewText("original"))

	got := s.Entries()
	got[0] = entry.NewText("mutated")
	assert.Equal(t, []string{"original"}, s.Texts())
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	raw, err := history.Encode([]entry.Entry{entry.NewText("x"), entry.NewText(`quote "y"`)})
	require.NoError(t, err)

	texts, err := history.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", `quote "y"`}, texts)

	raw, err = history.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}
