package pyxel

import (
	"fmt"
	"time"
)

// resolveDocument transforms a shape-checked descriptor into the final typed
// Document. Layer and tileset order is preserved from the descriptor; it is
// the z-order. Referential integrity against the archive is checked here,
// regardless of whether images get materialized later.
func resolveDocument(raw *rawDescriptor, acc Accessor, limits Limits) (*Document, error) {
	if raw.canvasWidth <= 0 || raw.canvasHeight <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidDimensions, raw.canvasWidth, raw.canvasHeight)
	}
	if raw.tileWidth <= 0 || raw.tileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrInvalidDimensions, raw.tileWidth, raw.tileHeight)
	}
	usesTiles := len(raw.tilesets) > 0
	for i := range raw.layers {
		if len(raw.layers[i].tileRefs) > 0 {
			usesTiles = true
		}
	}
	if usesTiles && (raw.canvasWidth%raw.tileWidth != 0 || raw.canvasHeight%raw.tileHeight != 0) {
		return nil, fmt.Errorf("%w: canvas %dx%d is not aligned to tile size %dx%d",
			ErrInvalidDimensions, raw.canvasWidth, raw.canvasHeight, raw.tileWidth, raw.tileHeight)
	}

	if len(raw.layers) > limits.MaxLayers {
		return nil, fmt.Errorf("%w: %d layers", ErrLimitExceeded, len(raw.layers))
	}
	if len(raw.tilesets) > limits.MaxTilesets {
		return nil, fmt.Errorf("%w: %d tilesets", ErrLimitExceeded, len(raw.tilesets))
	}
	if len(raw.palette) > limits.MaxPaletteColors {
		return nil, fmt.Errorf("%w: %d palette colors", ErrLimitExceeded, len(raw.palette))
	}
	if len(raw.animations) > limits.MaxAnimations {
		return nil, fmt.Errorf("%w: %d animations", ErrLimitExceeded, len(raw.animations))
	}

	doc := &Document{
		Name:         raw.name,
		CanvasWidth:  raw.canvasWidth,
		CanvasHeight: raw.canvasHeight,
		TileWidth:    raw.tileWidth,
		TileHeight:   raw.tileHeight,
		Indexed:      raw.indexed,
		layersByID:   make(map[int]int, len(raw.layers)),
		tilesetsByID: make(map[int]int, len(raw.tilesets)),
	}

	doc.Layers = make([]Layer, 0, len(raw.layers))
	for i, rl := range raw.layers {
		if rl.opacity < 0 || rl.opacity > 1 {
			return nil, fmt.Errorf("%w: layer %q opacity %v", ErrInvalidOpacity, rl.name, rl.opacity)
		}
		mode := BlendMode(rl.blendMode)
		if _, ok := blendModes[mode]; !ok {
			return nil, fmt.Errorf("%w: layer %q blend mode %q", ErrUnknownBlendMode, rl.name, rl.blendMode)
		}
		if len(rl.tileRefs) > limits.MaxTileRefsPerLayer {
			return nil, fmt.Errorf("%w: layer %q has %d tile refs", ErrLimitExceeded, rl.name, len(rl.tileRefs))
		}
		if rl.image != "" && !acc.EntryExists(rl.image) {
			return nil, fmt.Errorf("%w: layer %q image %q", ErrMissingAsset, rl.name, rl.image)
		}
		l := Layer{
			ID:        rl.id,
			Name:      rl.name,
			Opacity:   rl.opacity,
			Visible:   rl.visible,
			Muted:     rl.muted,
			Soloed:    rl.soloed,
			BlendMode: mode,
			Image:     rl.image,
		}
		if len(rl.tileRefs) > 0 {
			l.TileRefs = make(map[int]TileRef, len(rl.tileRefs))
			for cell, ref := range rl.tileRefs {
				l.TileRefs[cell] = TileRef{
					Tileset: ref.tileset,
					Index:   ref.index,
					Rot:     float64(ref.rot) * 90,
					FlipX:   ref.flipX,
				}
			}
		}
		doc.Layers = append(doc.Layers, l)
		// Later duplicate wins for id lookup; both stay in order.
		doc.layersByID[l.ID] = i
	}

	doc.Tilesets = make([]Tileset, 0, len(raw.tilesets))
	for i, rt := range raw.tilesets {
		if rt.tileWidth != raw.tileWidth || rt.tileHeight != raw.tileHeight {
			return nil, fmt.Errorf("%w: tileset %d tile size %dx%d does not match document %dx%d",
				ErrInvalidDimensions, rt.id, rt.tileWidth, rt.tileHeight, raw.tileWidth, raw.tileHeight)
		}
		if rt.tileCount < 0 {
			return nil, fmt.Errorf("%w: tileset %d tile count %d", ErrInvalidDimensions, rt.id, rt.tileCount)
		}
		if !acc.EntryExists(rt.image) {
			return nil, fmt.Errorf("%w: tileset %d image %q", ErrMissingAsset, rt.id, rt.image)
		}
		doc.Tilesets = append(doc.Tilesets, Tileset{
			ID:         rt.id,
			TileWidth:  rt.tileWidth,
			TileHeight: rt.tileHeight,
			TileCount:  rt.tileCount,
			Image:      rt.image,
		})
		doc.tilesetsByID[rt.id] = i
	}

	for _, l := range doc.Layers {
		for cell, ref := range l.TileRefs {
			tsIdx, ok := doc.tilesetsByID[ref.Tileset]
			if !ok {
				return nil, fmt.Errorf("%w: layer %q cell %d references unknown tileset %d",
					ErrMissingAsset, l.Name, cell, ref.Tileset)
			}
			ts := doc.Tilesets[tsIdx]
			if ref.Index < 0 || ref.Index >= ts.TileCount {
				return nil, fmt.Errorf("%w: layer %q cell %d tile %d, tileset %d has %d tiles",
					ErrTileIndexOutOfRange, l.Name, cell, ref.Index, ts.ID, ts.TileCount)
			}
		}
	}

	if len(raw.palette) > 0 {
		doc.Palette = make(Palette, 0, len(raw.palette))
		for i, s := range raw.palette {
			c, err := ParseColor(s)
			if err != nil {
				return nil, fmt.Errorf("%w: palette[%d]: %v", ErrDescriptorShape, i, err)
			}
			doc.Palette = append(doc.Palette, c)
		}
	}
	if doc.Indexed && len(doc.Palette) == 0 {
		return nil, fmt.Errorf("%w: indexed document requires a non-empty palette", ErrDescriptorShape)
	}

	if len(raw.animations) > 0 {
		doc.Animations = make([]Animation, 0, len(raw.animations))
		for _, ra := range raw.animations {
			if ra.baseTile < 0 || ra.length < 0 || ra.frameDuration < 0 {
				return nil, fmt.Errorf("%w: animation %q has negative fields", ErrDescriptorShape, ra.name)
			}
			mult := make([]float64, 0, len(ra.multipliers))
			for _, m := range ra.multipliers {
				mult = append(mult, float64(m)/100)
			}
			doc.Animations = append(doc.Animations, Animation{
				Name:                     ra.name,
				BaseTile:                 ra.baseTile,
				FrameDuration:            time.Duration(ra.frameDuration) * time.Millisecond,
				FrameDurationMultipliers: mult,
				Length:                   ra.length,
			})
		}
	}
	return doc, nil
}
