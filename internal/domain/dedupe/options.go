package dedupe

// Option applies a configuration option to the deduper.
type Option func(*memoryDeduper)

// WithMaxSize bounds the number of tracked IDs. Zero or negative means
// unbounded.
func WithMaxSize(n int) Option {
	return func(d *memoryDeduper) {
		d.maxSize = n
	}
}
