// Package history keeps a bounded, optionally persisted, most-recent-first
// list of clipboard entries.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"go.klb.dev/supaclipboard/internal/entry"
	"go.klb.dev/supaclipboard/internal/kv"
)

const (
	// StorageKey is the key the serialized history lives under.
	StorageKey = "supaclipboardHistory"
	// DefaultLimit is used when a non-positive limit is configured.
	DefaultLimit = 10
)

// Store is a bounded clipboard history. Index 0 is the most recent entry.
type Store struct {
	mu      sync.Mutex
	limit   int
	persist bool
	kv      kv.Store
	entries []entry.Entry
}

// New returns a Store holding at most limit entries. When persist is true
// the previously saved history is loaded from store and every Record writes
// it back; a missing or unreadable value starts an empty history.
func New(store kv.Store, limit int, persist bool) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if persist && store == nil {
		slog.Warn("history persistence requested without a store, keeping history in memory")
		persist = false
	}
	s := &Store{
		limit:   limit,
		persist: persist,
		kv:      store,
		entries: make([]entry.Entry, 0, limit),
	}
	if persist {
		s.entries = s.load()
	}
	return s
}

func (s *Store) load() []entry.Entry {
	raw, err := s.kv.Get(StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return make([]entry.Entry, 0, s.limit)
	}
	if err != nil {
		slog.Warn("history load failed, starting empty", "err", err)
		return make([]entry.Entry, 0, s.limit)
	}
	texts, err := Decode(raw)
	if err != nil {
		slog.Warn("stored history is corrupt, starting empty", "err", err)
		return make([]entry.Entry, 0, s.limit)
	}
	if len(texts) > s.limit {
		texts = texts[:s.limit]
	}
	out := make([]entry.Entry, 0, s.limit)
	for _, t := range texts {
		out = append(out, entry.NewText(t))
	}
	slog.Debug("history loaded", "entries", len(out))
	return out
}

// Record inserts e as the most recent entry, evicting the oldest entries
// beyond the limit, and persists the result if configured. The whole
// update is atomic with respect to other Record calls.
func (s *Store) Record(e entry.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keep := min(len(s.entries), s.limit-1)
	next := make([]entry.Entry, 0, s.limit)
	next = append(next, e)
	next = append(next, s.entries[:keep]...)
	s.entries = next

	if !s.persist {
		return
	}
	raw, err := Encode(s.entries)
	if err != nil {
		slog.Error("history encode failed", "err", err)
		return
	}
	if err := s.kv.Set(StorageKey, raw); err != nil {
		slog.Error("history save failed", "err", err)
	}
}

// Entries returns a copy of the history, most recent first.
func (s *Store) Entries() []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Texts returns the text content of every text entry, most recent first.
func (s *Store) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Kind == entry.KindText {
			out = append(out, e.Text())
		}
	}
	return out
}

// Len returns the number of entries currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Limit returns the configured maximum length.
func (s *Store) Limit() int { return s.limit }

// Encode serializes the plain-text entries of entries as a JSON array of
// strings. HTML and image entries are not persisted.
func Encode(entries []entry.Entry) (string, error) {
	texts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsPlainText() {
			texts = append(texts, e.Text())
		}
	}
	b, err := json.Marshal(texts)
	if err != nil {
		return "", fmt.Errorf("history encode: %w", err)
	}
	return string(b), nil
}

// Decode parses the persisted form produced by Encode.
func Decode(raw string) ([]string, error) {
	var texts []string
	if err := json.Unmarshal([]byte(raw), &texts); err != nil {
		return nil, fmt.Errorf("history decode: %w", err)
	}
	return texts, nil
}
