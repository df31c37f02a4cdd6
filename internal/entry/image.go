package entry

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// NewImage returns an image entry. Clipboards exchange images as PNG, so
// any other decodable format is re-encoded. Bytes that cannot be decoded
// keep their sniffed MIME type, or image/png when none is recognised.
func NewImage(data []byte) Entry {
	if converted, err := ToPNG(data); err == nil {
		return Entry{Kind: KindImage, MIME: MIMEPNG, Data: converted}
	}
	return Entry{Kind: KindImage, MIME: sniffImage(data, MIMEPNG), Data: bytes.Clone(data)}
}

// imageFor is NewImage for data declared as mime. Undecodable data keeps
// the declared type.
func imageFor(mime string, data []byte) Entry {
	if converted, err := ToPNG(data); err == nil {
		return Entry{Kind: KindImage, MIME: MIMEPNG, Data: converted}
	}
	return Entry{Kind: KindImage, MIME: mime, Data: bytes.Clone(data)}
}

// ToPNG returns data as PNG. PNG input is copied as is; GIF, JPEG, BMP and
// WebP are decoded and re-encoded.
func ToPNG(data []byte) ([]byte, error) {
	if sniffImage(data, "") == MIMEPNG {
		return bytes.Clone(data), nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s as png: %w", format, err)
	}
	return buf.Bytes(), nil
}

func sniffImage(data []byte, fallback string) string {
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, imagePrefix) {
		return sniffed
	}
	return fallback
}
