package pyxel

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// descriptorEntry is the fixed name of the metadata entry inside the container.
const descriptorEntry = "docData.json"

// Accessor is the read surface of an opened .pyxel container. *Archive is the
// canonical implementation; tests and collaborators may substitute their own.
type Accessor interface {
	EntryExists(name string) bool
	ReadEntry(name string) ([]byte, error)
}

// Archive wraps an opened .pyxel container and resolves entries by name.
type Archive struct {
	zr       *zip.Reader
	entries  map[string]*zip.File
	closer   io.Closer
	maxEntry uint64
}

// OpenArchive opens the container at path. The caller must Close the returned
// Archive.
func OpenArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	a, err := NewArchive(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// NewArchive wraps an already-open container. It fails with ErrArchive if r
// does not start a structurally valid zip archive.
func NewArchive(r io.ReaderAt, size int64) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	// Some archivers store entries with the WinZip zstd method.
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}
	return &Archive{zr: zr, entries: entries, maxEntry: defaultLimits().MaxEntryLen}, nil
}

// Close releases the underlying file handle, if the Archive owns one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// EntryExists reports whether the archive contains an entry with this exact
// name.
func (a *Archive) EntryExists(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// ReadEntry returns the uncompressed bytes of the named entry. It fails with
// ErrMissingEntry if the entry is absent and ErrCorruptEntry if it cannot be
// decompressed.
func (a *Archive) ReadEntry(name string) ([]byte, error) {
	f, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingEntry, name)
	}
	if a.maxEntry > 0 && f.UncompressedSize64 > a.maxEntry {
		return nil, fmt.Errorf("%w: entry %q is %d bytes", ErrLimitExceeded, name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCorruptEntry, name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCorruptEntry, name, err)
	}
	return b, nil
}
