package repository

import "github.com/okian/skillfade/pkg/clock"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithClock sets the clock used for archive timestamps. Tests pin this to a
// fixed day.
func WithClock(clk clock.Clock) Option {
	return func(s *MemStore) {
		if clk != nil {
			s.clk = clk
		}
	}
}
