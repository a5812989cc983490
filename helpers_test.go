package pyxel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/klauspost/compress/zip"
)

// baseDescriptor is the minimal valid descriptor used throughout the tests.
// Tests mutate the returned map before marshalling.
func baseDescriptor() map[string]any {
	return map[string]any{
		"version":      "0.4.8",
		"canvasWidth":  64,
		"canvasHeight": 32,
		"tileWidth":    8,
		"tileHeight":   8,
		"layers": []any{
			map[string]any{
				"id": 1, "name": "bg", "opacity": 1.0,
				"visible": true, "blendMode": "normal",
			},
		},
		"tilesets": []any{},
	}
}

func marshalDescriptor(t *testing.T, desc map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(desc)
	if err != nil {
		t.Fatalf("marshal descriptor: %v", err)
	}
	return b
}

// buildArchive assembles an in-memory zip container from the given entries.
func buildArchive(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// docArchive builds an archive holding desc as docData.json plus extra entries.
func docArchive(t *testing.T, desc map[string]any, extra map[string][]byte) []byte {
	t.Helper()
	entries := map[string][]byte{descriptorEntry: marshalDescriptor(t, desc)}
	for name, data := range extra {
		entries[name] = data
	}
	return buildArchive(t, entries)
}

// pngBytes encodes a w x h PNG with a deterministic pixel pattern.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x7f, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// mapAccessor is an instrumented in-memory Accessor.
type mapAccessor struct {
	entries     map[string][]byte
	existsCalls int
	readCalls   int
}

func (m *mapAccessor) EntryExists(name string) bool {
	m.existsCalls++
	_, ok := m.entries[name]
	return ok
}

func (m *mapAccessor) ReadEntry(name string) ([]byte, error) {
	m.readCalls++
	b, ok := m.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingEntry, name)
	}
	return b, nil
}

// parseRaw shape-checks a descriptor map the way Load does.
func parseRaw(t *testing.T, desc map[string]any) *rawDescriptor {
	t.Helper()
	raw, err := parseDescriptor(marshalDescriptor(t, desc))
	if err != nil {
		t.Fatalf("parseDescriptor: %v", err)
	}
	return raw
}
