// Package pyxel loads PyxelEdit documents.
//
// A .pyxel file is a zip container holding a JSON descriptor (docData.json)
// plus one PNG entry per layer and per tileset atlas. This package opens the
// container, validates the descriptor against the single supported schema
// version (0.4.8), cross-references every declared image entry against the
// archive, and assembles an immutable Document.
//
// # Basic Usage
//
// To open a document without decoding pixels:
//
//	doc, err := pyxel.Open("sprite.pyxel")
//
// Layers and tilesets carry the names of their image entries; no image bytes
// are read. To also decode every referenced PNG into a RasterAsset:
//
//	doc, err := pyxel.Open("sprite.pyxel", pyxel.WithImages(true))
//
// Documents already in memory can be loaded with LoadBytes, and any
// io.ReaderAt with a known size with Load.
//
// # Error Handling
//
// All failures wrap one of the package sentinel errors (ErrUnsupportedVersion,
// ErrMissingAsset, ErrTileIndexOutOfRange, ...) and carry the offending field
// or entry name in the message. Open is all-or-nothing: no partial Document is
// ever returned.
//
// # Security Considerations
//
// Decoding is guarded by configurable [Limits] on descriptor size, entry size,
// element counts, and decoded image pixels to prevent resource exhaustion from
// hostile archives.
//
// This package is read-only. It never writes or re-serializes documents.
package pyxel
