// Package entry defines the unit of clipboard content handled by supaclipboard.
//
// An Entry is a tagged value: either text (plain or HTML) or an image blob.
// Entries are immutable once recorded in a history.
package entry

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind tags the content of an Entry.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// MIME types understood by the clipboard backends.
const (
	MIMEText = "text/plain"
	MIMEHTML = "text/html"
	MIMEPNG  = "image/png"

	imagePrefix = "image/"
)

// Entry is a single clipboard representation.
type Entry struct {
	Kind Kind
	MIME string
	Data []byte
}

// NewText returns a text/plain entry.
func NewText(s string) Entry {
	return Entry{Kind: KindText, MIME: MIMEText, Data: []byte(s)}
}

// NewHTML returns a text/html entry.
func NewHTML(s string) Entry {
	return Entry{Kind: KindText, MIME: MIMEHTML, Data: []byte(s)}
}

// Classify turns a string payload into an entry. A payload whose trimmed
// form starts with '<' and ends with '>' is HTML, anything else plain text.
func Classify(s string) Entry {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "<") && strings.HasSuffix(t, ">") {
		return NewHTML(s)
	}
	return NewText(s)
}

// ForMIME builds an entry for data tagged with an explicit MIME type.
// "auto" (or empty) classifies data as a string payload.
func ForMIME(mime string, data []byte) (Entry, error) {
	switch {
	case mime == "" || mime == "auto":
		return Classify(string(data)), nil
	case mime == MIMEText:
		return NewText(string(data)), nil
	case mime == MIMEHTML:
		return NewHTML(string(data)), nil
	case mime == "image":
		return NewImage(data), nil
	case strings.HasPrefix(mime, imagePrefix):
		return imageFor(mime, data), nil
	default:
		return Entry{}, fmt.Errorf("unsupported MIME type: %s", mime)
	}
}

// Text returns the payload as a string. It is only meaningful for KindText.
func (e Entry) Text() string { return string(e.Data) }

// IsPlainText reports whether e is a text/plain entry.
func (e Entry) IsPlainText() bool { return e.MIME == MIMEText }

// IsImage reports whether e carries an image/* payload.
func (e Entry) IsImage() bool { return strings.HasPrefix(e.MIME, imagePrefix) }

// Select returns the first item that is plain text or an image, or nil if
// no item matches. The returned entry is tagged by what matched.
func Select(items []Entry) *Entry {
	for _, it := range items {
		switch {
		case it.IsPlainText():
			e := NewText(it.Text())
			return &e
		case it.IsImage():
			e := Entry{Kind: KindImage, MIME: it.MIME, Data: bytes.Clone(it.Data)}
			return &e
		}
	}
	return nil
}

// TextOf returns the content of the first text/plain item, or "".
func TextOf(items []Entry) string {
	for _, it := range items {
		if it.IsPlainText() {
			return it.Text()
		}
	}
	return ""
}

// Preview returns a short human-readable rendering of e for logs.
func (e Entry) Preview(n int) string {
	if e.Kind != KindText {
		return fmt.Sprintf("[%s %d bytes]", e.MIME, len(e.Data))
	}
	s := e.Text()
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "…"
	}
	return s
}
