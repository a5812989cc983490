package pyxel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// rawDescriptor is the loosely validated form of docData.json: every field has
// the right value kind, but no model-level invariant (version match, ranges,
// referential integrity) has been checked yet.
type rawDescriptor struct {
	version      string
	name         string
	canvasWidth  int
	canvasHeight int
	tileWidth    int
	tileHeight   int
	indexed      bool
	layers       []rawLayer
	tilesets     []rawTileset
	palette      []string
	animations   []rawAnimation
}

type rawLayer struct {
	id        int
	name      string
	opacity   float64
	visible   bool
	muted     bool
	soloed    bool
	blendMode string
	image     string
	tileRefs  map[int]rawTileRef
}

type rawTileRef struct {
	tileset int
	index   int
	rot     int // quarter-turns
	flipX   bool
}

type rawTileset struct {
	id         int
	tileWidth  int
	tileHeight int
	tileCount  int
	image      string
}

type rawAnimation struct {
	name          string
	baseTile      int
	frameDuration int // milliseconds
	multipliers   []int
	length        int
}

// parseDescriptor decodes data into a generic JSON value tree and runs an
// explicit shape-check pass over it. Unknown fields are ignored. It fails with
// ErrMalformedDescriptor if data is not well-formed JSON and ErrDescriptorShape
// if a required field is absent or of the wrong value kind.
func parseDescriptor(data []byte) (*rawDescriptor, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDescriptor, err)
	}
	root, ok := tree.(map[string]any)
	if !ok {
		return nil, shapeErr("(top level)", "record", tree)
	}

	d := &rawDescriptor{}
	var err error
	if d.version, err = getString(root, "", "version"); err != nil {
		return nil, err
	}
	if d.name, err = optString(root, "", "name"); err != nil {
		return nil, err
	}
	if d.canvasWidth, err = getInt(root, "", "canvasWidth"); err != nil {
		return nil, err
	}
	if d.canvasHeight, err = getInt(root, "", "canvasHeight"); err != nil {
		return nil, err
	}
	if d.tileWidth, err = getInt(root, "", "tileWidth"); err != nil {
		return nil, err
	}
	if d.tileHeight, err = getInt(root, "", "tileHeight"); err != nil {
		return nil, err
	}
	if d.indexed, err = optBool(root, "", "indexed"); err != nil {
		return nil, err
	}

	rawLayers, err := getArray(root, "", "layers")
	if err != nil {
		return nil, err
	}
	d.layers = make([]rawLayer, 0, len(rawLayers))
	for i, v := range rawLayers {
		l, err := shapeLayer(v, fmt.Sprintf("layers[%d]", i))
		if err != nil {
			return nil, err
		}
		d.layers = append(d.layers, l)
	}

	rawTilesets, err := getArray(root, "", "tilesets")
	if err != nil {
		return nil, err
	}
	d.tilesets = make([]rawTileset, 0, len(rawTilesets))
	for i, v := range rawTilesets {
		ts, err := shapeTileset(v, fmt.Sprintf("tilesets[%d]", i))
		if err != nil {
			return nil, err
		}
		d.tilesets = append(d.tilesets, ts)
	}

	if pal, ok := root["palette"]; ok {
		seq, ok := pal.([]any)
		if !ok {
			return nil, shapeErr("palette", "sequence", pal)
		}
		d.palette = make([]string, 0, len(seq))
		for i, v := range seq {
			s, ok := v.(string)
			if !ok {
				return nil, shapeErr(fmt.Sprintf("palette[%d]", i), "string", v)
			}
			d.palette = append(d.palette, s)
		}
	}

	if anims, ok := root["animations"]; ok {
		seq, ok := anims.([]any)
		if !ok {
			return nil, shapeErr("animations", "sequence", anims)
		}
		d.animations = make([]rawAnimation, 0, len(seq))
		for i, v := range seq {
			a, err := shapeAnimation(v, fmt.Sprintf("animations[%d]", i))
			if err != nil {
				return nil, err
			}
			d.animations = append(d.animations, a)
		}
	}
	return d, nil
}

func shapeLayer(v any, path string) (rawLayer, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return rawLayer{}, shapeErr(path, "record", v)
	}
	var l rawLayer
	var err error
	if l.id, err = getInt(obj, path, "id"); err != nil {
		return rawLayer{}, err
	}
	if l.name, err = getString(obj, path, "name"); err != nil {
		return rawLayer{}, err
	}
	if l.opacity, err = getFloat(obj, path, "opacity"); err != nil {
		return rawLayer{}, err
	}
	if l.visible, err = getBool(obj, path, "visible"); err != nil {
		return rawLayer{}, err
	}
	if l.muted, err = optBool(obj, path, "muted"); err != nil {
		return rawLayer{}, err
	}
	if l.soloed, err = optBool(obj, path, "soloed"); err != nil {
		return rawLayer{}, err
	}
	if l.blendMode, err = getString(obj, path, "blendMode"); err != nil {
		return rawLayer{}, err
	}
	if l.image, err = optString(obj, path, "image"); err != nil {
		return rawLayer{}, err
	}
	if refs, ok := obj["tileRefs"]; ok {
		refObj, ok := refs.(map[string]any)
		if !ok {
			return rawLayer{}, shapeErr(path+".tileRefs", "record", refs)
		}
		l.tileRefs = make(map[int]rawTileRef, len(refObj))
		for key, rv := range refObj {
			cell, err := strconv.Atoi(key)
			if err != nil || cell < 0 {
				return rawLayer{}, fmt.Errorf("%w: field %q: key %q is not a cell index", ErrDescriptorShape, path+".tileRefs", key)
			}
			ref, err := shapeTileRef(rv, fmt.Sprintf("%s.tileRefs[%s]", path, key))
			if err != nil {
				return rawLayer{}, err
			}
			l.tileRefs[cell] = ref
		}
	}
	return l, nil
}

func shapeTileRef(v any, path string) (rawTileRef, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return rawTileRef{}, shapeErr(path, "record", v)
	}
	var r rawTileRef
	var err error
	if r.tileset, err = optInt(obj, path, "tileset"); err != nil {
		return rawTileRef{}, err
	}
	if r.index, err = getInt(obj, path, "index"); err != nil {
		return rawTileRef{}, err
	}
	if r.rot, err = optInt(obj, path, "rot"); err != nil {
		return rawTileRef{}, err
	}
	if r.rot < 0 {
		return rawTileRef{}, fmt.Errorf("%w: field %q: rot must not be negative", ErrDescriptorShape, path)
	}
	if r.flipX, err = optBool(obj, path, "flipX"); err != nil {
		return rawTileRef{}, err
	}
	return r, nil
}

func shapeTileset(v any, path string) (rawTileset, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return rawTileset{}, shapeErr(path, "record", v)
	}
	var ts rawTileset
	var err error
	if ts.id, err = getInt(obj, path, "id"); err != nil {
		return rawTileset{}, err
	}
	if ts.tileWidth, err = getInt(obj, path, "tileWidth"); err != nil {
		return rawTileset{}, err
	}
	if ts.tileHeight, err = getInt(obj, path, "tileHeight"); err != nil {
		return rawTileset{}, err
	}
	if ts.tileCount, err = getInt(obj, path, "tileCount"); err != nil {
		return rawTileset{}, err
	}
	if ts.image, err = getString(obj, path, "image"); err != nil {
		return rawTileset{}, err
	}
	return ts, nil
}

func shapeAnimation(v any, path string) (rawAnimation, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return rawAnimation{}, shapeErr(path, "record", v)
	}
	var a rawAnimation
	var err error
	if a.name, err = getString(obj, path, "name"); err != nil {
		return rawAnimation{}, err
	}
	if a.baseTile, err = getInt(obj, path, "baseTile"); err != nil {
		return rawAnimation{}, err
	}
	if a.frameDuration, err = getInt(obj, path, "frameDuration"); err != nil {
		return rawAnimation{}, err
	}
	if a.length, err = getInt(obj, path, "length"); err != nil {
		return rawAnimation{}, err
	}
	seq, err := getArray(obj, path, "frameDurationMultipliers")
	if err != nil {
		return rawAnimation{}, err
	}
	a.multipliers = make([]int, 0, len(seq))
	for i, mv := range seq {
		m, err := toInt(mv, fmt.Sprintf("%s.frameDurationMultipliers[%d]", path, i))
		if err != nil {
			return rawAnimation{}, err
		}
		a.multipliers = append(a.multipliers, m)
	}
	return a, nil
}

// Shape-check helpers. Paths in error messages are dotted JSON paths rooted at
// the descriptor's top level.

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "sequence"
	case map[string]any:
		return "record"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func shapeErr(path, want string, got any) error {
	return fmt.Errorf("%w: field %q: expected %s, got %s", ErrDescriptorShape, path, want, kindOf(got))
}

func missingErr(path string) error {
	return fmt.Errorf("%w: field %q: required field is missing", ErrDescriptorShape, path)
}

func getString(obj map[string]any, path, name string) (string, error) {
	v, ok := obj[name]
	if !ok {
		return "", missingErr(fieldPath(path, name))
	}
	s, ok := v.(string)
	if !ok {
		return "", shapeErr(fieldPath(path, name), "string", v)
	}
	return s, nil
}

func optString(obj map[string]any, path, name string) (string, error) {
	v, ok := obj[name]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", shapeErr(fieldPath(path, name), "string", v)
	}
	return s, nil
}

func toInt(v any, path string) (int, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, shapeErr(path, "integer", v)
	}
	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, shapeErr(path, "integer", v)
	}
	return int(i), nil
}

func getInt(obj map[string]any, path, name string) (int, error) {
	v, ok := obj[name]
	if !ok {
		return 0, missingErr(fieldPath(path, name))
	}
	return toInt(v, fieldPath(path, name))
}

func optInt(obj map[string]any, path, name string) (int, error) {
	v, ok := obj[name]
	if !ok {
		return 0, nil
	}
	return toInt(v, fieldPath(path, name))
}

func getFloat(obj map[string]any, path, name string) (float64, error) {
	v, ok := obj[name]
	if !ok {
		return 0, missingErr(fieldPath(path, name))
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, shapeErr(fieldPath(path, name), "number", v)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, shapeErr(fieldPath(path, name), "number", v)
	}
	return f, nil
}

func getBool(obj map[string]any, path, name string) (bool, error) {
	v, ok := obj[name]
	if !ok {
		return false, missingErr(fieldPath(path, name))
	}
	b, ok := v.(bool)
	if !ok {
		return false, shapeErr(fieldPath(path, name), "bool", v)
	}
	return b, nil
}

func optBool(obj map[string]any, path, name string) (bool, error) {
	v, ok := obj[name]
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, shapeErr(fieldPath(path, name), "bool", v)
	}
	return b, nil
}

func getArray(obj map[string]any, path, name string) ([]any, error) {
	v, ok := obj[name]
	if !ok {
		return nil, missingErr(fieldPath(path, name))
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, shapeErr(fieldPath(path, name), "sequence", v)
	}
	return seq, nil
}
