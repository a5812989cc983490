package pyxel

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"golang.org/x/sync/errgroup"
)

// materialize decodes every referenced image entry into a RasterAsset and
// attaches it to its layer or tileset. Decodes fan out over an errgroup but
// each result lands in a fixed slot, so the outcome matches descriptor order
// regardless of completion order.
func materialize(doc *Document, acc Accessor, parallelism int, maxPixels uint64) error {
	type target struct {
		entry string
		dst   **RasterAsset
	}
	var targets []target
	for i := range doc.Layers {
		if doc.Layers[i].Image != "" {
			targets = append(targets, target{doc.Layers[i].Image, &doc.Layers[i].Raster})
		}
	}
	for i := range doc.Tilesets {
		targets = append(targets, target{doc.Tilesets[i].Image, &doc.Tilesets[i].Raster})
	}
	if len(targets) == 0 {
		return nil
	}

	if parallelism < 1 {
		parallelism = 1
	}
	var g errgroup.Group
	g.SetLimit(parallelism)
	for _, t := range targets {
		g.Go(func() error {
			asset, err := decodeEntry(acc, t.entry, maxPixels)
			if err != nil {
				return err
			}
			*t.dst = asset
			return nil
		})
	}
	return g.Wait()
}

func decodeEntry(acc Accessor, entry string, maxPixels uint64) (*RasterAsset, error) {
	b, err := acc.ReadEntry(entry)
	if err != nil {
		return nil, err
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrImageDecode, entry, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || uint64(cfg.Width)*uint64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: image %q is %dx%d", ErrLimitExceeded, entry, cfg.Width, cfg.Height)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrImageDecode, entry, err)
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		bounds := img.Bounds()
		converted := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(converted, converted.Bounds(), img, bounds.Min, draw.Src)
		nrgba = converted
	}
	return &RasterAsset{
		Width:  nrgba.Rect.Dx(),
		Height: nrgba.Rect.Dy(),
		Stride: nrgba.Stride,
		Pix:    nrgba.Pix,
	}, nil
}
