package accessor

import (
	"context"
	"log/slog"

	"go.klb.dev/supaclipboard/internal/entry"
)

const previewLen = 120

// LogEntries logs a clipboard event at INFO (source, kinds, mime types) and
// DEBUG (text preview up to 120 chars, or byte size for binary entries).
func LogEntries(event, source string, entries []entry.Entry) {
	mimes := make([]string, len(entries))
	for i, e := range entries {
		mimes[i] = e.MIME
	}
	slog.Info(event, "source", source, "types", mimes)

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, e := range entries {
		if e.Kind == entry.KindText {
			slog.Debug("clipboard entry", "mime", e.MIME, "preview", e.Preview(previewLen))
		} else {
			slog.Debug("clipboard entry", "mime", e.MIME, "size_bytes", len(e.Data))
		}
	}
}
