package pyxel

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

func newTestArchive(t *testing.T, data []byte) *Archive {
	t.Helper()
	a, err := NewArchive(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}
	return a
}

func TestArchive_NotAZip(t *testing.T) {
	garbage := []byte("this is definitely not a zip archive")
	if _, err := NewArchive(bytes.NewReader(garbage), int64(len(garbage))); !errors.Is(err, ErrArchive) {
		t.Fatalf("expected ErrArchive, got %v", err)
	}
	if _, err := LoadBytes(garbage); !errors.Is(err, ErrArchive) {
		t.Fatalf("LoadBytes: expected ErrArchive, got %v", err)
	}
}

func TestArchive_MissingDescriptor(t *testing.T) {
	arc := buildArchive(t, map[string][]byte{"layer0.png": {1, 2, 3}})
	_, err := LoadBytes(arc)
	if !errors.Is(err, ErrMissingEntry) {
		t.Fatalf("expected ErrMissingEntry, got %v", err)
	}
}

func TestArchive_EntryAccess(t *testing.T) {
	a := newTestArchive(t, buildArchive(t, map[string][]byte{"a.txt": []byte("hello")}))
	if !a.EntryExists("a.txt") {
		t.Error("a.txt should exist")
	}
	if a.EntryExists("b.txt") {
		t.Error("b.txt should not exist")
	}
	b, err := a.ReadEntry("a.txt")
	if err != nil || string(b) != "hello" {
		t.Errorf("ReadEntry = %q, %v", b, err)
	}
	if _, err := a.ReadEntry("b.txt"); !errors.Is(err, ErrMissingEntry) {
		t.Errorf("expected ErrMissingEntry, got %v", err)
	}
}

func TestArchive_CorruptEntry(t *testing.T) {
	const name = "data.bin"
	payload := bytes.Repeat([]byte("some compressible payload "), 64)
	data := buildArchive(t, map[string][]byte{name: payload})

	// The compressed stream starts right after the 30-byte local file header
	// plus the entry name. Flipping its leading bytes breaks the deflate
	// stream or the CRC, either of which must surface as ErrCorruptEntry.
	off := 30 + len(name)
	for i := 0; i < 4; i++ {
		data[off+i] ^= 0xff
	}

	a := newTestArchive(t, data)
	if _, err := a.ReadEntry(name); !errors.Is(err, ErrCorruptEntry) {
		t.Fatalf("expected ErrCorruptEntry, got %v", err)
	}
}

func TestArchive_EntrySizeLimit(t *testing.T) {
	arc := docArchive(t, baseDescriptor(), nil)
	_, err := LoadBytes(arc, WithLimits(Limits{MaxEntryLen: 8}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestArchive_DescriptorSizeLimit(t *testing.T) {
	arc := docArchive(t, baseDescriptor(), nil)
	_, err := LoadBytes(arc, WithLimits(Limits{MaxDescriptorLen: 8}))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestArchive_ZstdEntryMethod(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	w, err := zw.CreateHeader(&zip.FileHeader{Name: descriptorEntry, Method: zstd.ZipMethodWinZip})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(marshalDescriptor(t, baseDescriptor())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("zstd-compressed descriptor entry should load: %v", err)
	}
	if len(doc.Layers) != 1 || doc.Layers[0].Name != "bg" {
		t.Errorf("unexpected document: %+v", doc.Layers)
	}
}
