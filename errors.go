package pyxel

import "errors"

var (
	// Archive failures.
	ErrArchive      = errors.New("pyxel: invalid archive")
	ErrMissingEntry = errors.New("pyxel: missing archive entry")
	ErrCorruptEntry = errors.New("pyxel: corrupt archive entry")

	// Descriptor failures.
	ErrMalformedDescriptor = errors.New("pyxel: malformed descriptor")
	ErrDescriptorShape     = errors.New("pyxel: invalid descriptor shape")

	// Version failures.
	ErrUnsupportedVersion = errors.New("pyxel: unsupported version")

	// Model failures.
	ErrInvalidDimensions   = errors.New("pyxel: invalid dimensions")
	ErrInvalidOpacity      = errors.New("pyxel: invalid opacity")
	ErrUnknownBlendMode    = errors.New("pyxel: unknown blend mode")
	ErrMissingAsset        = errors.New("pyxel: missing asset")
	ErrTileIndexOutOfRange = errors.New("pyxel: tile index out of range")
	ErrImageDecode         = errors.New("pyxel: image decode failed")

	ErrLimitExceeded = errors.New("pyxel: limit exceeded")
)
