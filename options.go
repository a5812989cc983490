package pyxel

type openConfig struct {
	limits      Limits
	images      bool
	parallelism int
}

type Option func(*openConfig)

// WithImages controls whether referenced PNG entries are decoded into
// RasterAssets. Disabled by default; layers and tilesets then carry only the
// entry names and no image bytes are read.
func WithImages(v bool) Option {
	return func(c *openConfig) { c.images = v }
}

// WithLimits sets custom resource limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(c *openConfig) { c.limits = l }
}

// WithParallelism bounds the number of images decoded concurrently when
// WithImages is enabled. Values below 1 mean sequential decoding.
func WithParallelism(n int) Option {
	return func(c *openConfig) { c.parallelism = n }
}
