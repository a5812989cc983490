package pyxel

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Open opens the .pyxel document at path.
//
// The loading process:
//  1. Opens the zip container and indexes its entries
//  2. Parses and shape-checks the docData.json descriptor
//  3. Validates the declared version against SupportedVersion
//  4. Resolves the typed Document and checks referential integrity
//  5. Optionally decodes referenced PNG entries into RasterAssets
//
// By default no image bytes are decoded; use WithImages(true) to materialize
// them. Open is all-or-nothing: on any failure no Document is returned. The
// archive handle is held only for the duration of the call.
func Open(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchive, err)
	}
	return Load(f, fi.Size(), opts...)
}

// LoadBytes loads a .pyxel document already held in memory.
func LoadBytes(data []byte, opts ...Option) (*Document, error) {
	return Load(bytes.NewReader(data), int64(len(data)), opts...)
}

// Load loads a .pyxel document from r. See Open for the loading process and
// defaults.
func Load(r io.ReaderAt, size int64, opts ...Option) (*Document, error) {
	cfg := openConfig{limits: defaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()

	arc, err := NewArchive(r, size)
	if err != nil {
		return nil, err
	}
	arc.maxEntry = cfg.limits.MaxEntryLen

	if f, ok := arc.entries[descriptorEntry]; ok && f.UncompressedSize64 > cfg.limits.MaxDescriptorLen {
		return nil, fmt.Errorf("%w: descriptor is %d bytes", ErrLimitExceeded, f.UncompressedSize64)
	}
	data, err := arc.ReadEntry(descriptorEntry)
	if err != nil {
		return nil, err
	}
	raw, err := parseDescriptor(data)
	if err != nil {
		return nil, err
	}
	ver, err := validateVersion(raw)
	if err != nil {
		return nil, err
	}
	doc, err := resolveDocument(raw, arc, cfg.limits)
	if err != nil {
		return nil, err
	}
	doc.Version = ver

	if cfg.images {
		if err := materialize(doc, arc, cfg.parallelism, cfg.limits.MaxImagePixels); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
