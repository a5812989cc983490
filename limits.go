package pyxel

// Limits bounds the resources a single Open may consume. Zero fields take
// their default. All limits are enforced before the guarded allocation or
// decode happens.
type Limits struct {
	MaxDescriptorLen    uint64 // docData.json bytes after decompression
	MaxEntryLen         uint64 // any single entry's uncompressed size
	MaxLayers           int
	MaxTilesets         int
	MaxPaletteColors    int
	MaxTileRefsPerLayer int
	MaxAnimations       int
	MaxImagePixels      uint64 // width*height of a single decoded image
}

func defaultLimits() Limits {
	return Limits{
		MaxDescriptorLen:    16 << 20, // 16 MiB
		MaxEntryLen:         256 << 20,
		MaxLayers:           1_000,
		MaxTilesets:         1_000,
		MaxPaletteColors:    4_096,
		MaxTileRefsPerLayer: 1 << 20,
		MaxAnimations:       10_000,
		MaxImagePixels:      64 << 20, // 64 megapixels
	}
}

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxDescriptorLen == 0 {
		l.MaxDescriptorLen = d.MaxDescriptorLen
	}
	if l.MaxEntryLen == 0 {
		l.MaxEntryLen = d.MaxEntryLen
	}
	if l.MaxLayers == 0 {
		l.MaxLayers = d.MaxLayers
	}
	if l.MaxTilesets == 0 {
		l.MaxTilesets = d.MaxTilesets
	}
	if l.MaxPaletteColors == 0 {
		l.MaxPaletteColors = d.MaxPaletteColors
	}
	if l.MaxTileRefsPerLayer == 0 {
		l.MaxTileRefsPerLayer = d.MaxTileRefsPerLayer
	}
	if l.MaxAnimations == 0 {
		l.MaxAnimations = d.MaxAnimations
	}
	if l.MaxImagePixels == 0 {
		l.MaxImagePixels = d.MaxImagePixels
	}
	return l
}
