package pyxel

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/coreos/go-semver/semver"
)

// BlendMode is the compositing mode of a layer.
type BlendMode string

const (
	BlendNormal     BlendMode = "normal"
	BlendMultiply   BlendMode = "multiply"
	BlendAdd        BlendMode = "add"
	BlendDifference BlendMode = "difference"
	BlendDarken     BlendMode = "darken"
	BlendLighten    BlendMode = "lighten"
	BlendHardlight  BlendMode = "hardlight"
	BlendInvert     BlendMode = "invert"
	BlendOverlay    BlendMode = "overlay"
	BlendScreen     BlendMode = "screen"
	BlendSubtract   BlendMode = "subtract"
)

var blendModes = map[BlendMode]struct{}{
	BlendNormal:     {},
	BlendMultiply:   {},
	BlendAdd:        {},
	BlendDifference: {},
	BlendDarken:     {},
	BlendLighten:    {},
	BlendHardlight:  {},
	BlendInvert:     {},
	BlendOverlay:    {},
	BlendScreen:     {},
	BlendSubtract:   {},
}

// Color is an RGBA color.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// ParseColor decodes a color from the AARRGGBB hex encoding used by the
// descriptor's palette entries.
func ParseColor(s string) (Color, error) {
	var b [4]byte
	if hex.DecodedLen(len(s)) != len(b) {
		return Color{}, fmt.Errorf("color must be 8 hex digits, got %q", s)
	}
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return Color{}, err
	}
	return Color{A: b[0], R: b[1], G: b[2], B: b[3]}, nil
}

// Palette is an ordered list of colors used by indexed-color documents.
type Palette []Color

// TileRef addresses one tile of one tileset from a cell of a layer's tile grid.
type TileRef struct {
	Tileset int     // id of the tileset the tile belongs to
	Index   int     // tile index within the tileset
	Rot     float64 // clockwise rotation in degrees
	FlipX   bool
}

// Layer is one compositional plane of the canvas. Layers are kept in
// back-to-front order; the slice index in Document.Layers is the z-order.
type Layer struct {
	ID        int
	Name      string
	Opacity   float64 // 0.0 through 1.0
	Visible   bool
	Muted     bool
	Soloed    bool
	BlendMode BlendMode

	// Image is the archive entry name of the layer's raster, or "" if the
	// layer has none.
	Image string

	// TileRefs is a sparse map from cell index to tile reference. Nil when
	// the layer has no tile grid.
	TileRefs map[int]TileRef

	// Raster is the decoded pixel buffer, set only when the document was
	// opened with WithImages(true) and Image is non-empty.
	Raster *RasterAsset
}

// Tileset is a packed atlas of fixed-size tiles referenced by layers.
type Tileset struct {
	ID         int
	TileWidth  int
	TileHeight int
	TileCount  int

	// Image is the archive entry name of the packed tile atlas.
	Image string

	Raster *RasterAsset
}

// Animation is a named frame range over the canvas tile grid.
type Animation struct {
	Name                     string
	BaseTile                 int
	FrameDuration            time.Duration
	FrameDurationMultipliers []float64
	Length                   int
}

// RasterAsset is a decoded pixel buffer. Pix holds 4 bytes per pixel in NRGBA
// order, rows separated by Stride bytes. A RasterAsset belongs to exactly one
// Layer or Tileset and must not be mutated.
type RasterAsset struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// Document is the fully resolved, immutable representation of one .pyxel
// file. Treat all fields as read-only.
type Document struct {
	Version      semver.Version
	Name         string
	CanvasWidth  int
	CanvasHeight int
	TileWidth    int
	TileHeight   int

	// Indexed reports whether the document uses indexed color. Indexed
	// documents always carry a non-empty Palette.
	Indexed bool

	Layers     []Layer
	Tilesets   []Tileset
	Palette    Palette
	Animations []Animation

	layersByID   map[int]int
	tilesetsByID map[int]int
}

// LayerByID returns the layer with the given id. When two layers share an id,
// the one later in descriptor order wins; both remain in Layers.
func (d *Document) LayerByID(id int) (Layer, bool) {
	i, ok := d.layersByID[id]
	if !ok {
		return Layer{}, false
	}
	return d.Layers[i], true
}

// TilesetByID returns the tileset with the given id.
func (d *Document) TilesetByID(id int) (Tileset, bool) {
	i, ok := d.tilesetsByID[id]
	if !ok {
		return Tileset{}, false
	}
	return d.Tilesets[i], true
}
