package alerting

import "github.com/okian/skillfade/pkg/clock"

// Option configures the evaluator.
type Option func(*Evaluator)

// WithClock sets the clock used to anchor "today". Tests pin this to a fixed
// day.
func WithClock(clk clock.Clock) Option {
	return func(e *Evaluator) {
		if clk != nil {
			e.clk = clk
		}
	}
}

// WithDecayThreshold sets the freshness score below which decay alerts fire.
func WithDecayThreshold(threshold float64) Option {
	return func(e *Evaluator) {
		if threshold > 0 {
			e.decayThreshold = threshold
		}
	}
}

// WithDecaySuppressionDays sets how many days must pass before a skill can
// receive another decay alert.
func WithDecaySuppressionDays(days int) Option {
	return func(e *Evaluator) {
		if days > 0 {
			e.decaySuppressionDays = days
		}
	}
}

// WithGapMinLearning sets the minimum learning-event count before a
// practice-gap alert is considered.
func WithGapMinLearning(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.gapMinLearning = n
		}
	}
}

// WithGapMinAgeDays sets the minimum skill age before a practice-gap alert
// is considered.
func WithGapMinAgeDays(days int) Option {
	return func(e *Evaluator) {
		if days > 0 {
			e.gapMinAgeDays = days
		}
	}
}

// WithImbalanceRatioLimit sets the practice/learning ratio under which a
// window counts as imbalanced.
func WithImbalanceRatioLimit(limit float64) Option {
	return func(e *Evaluator) {
		if limit > 0 {
			e.imbalanceRatioLimit = limit
		}
	}
}

// WithImbalanceSuppressionDays sets how many days must pass before a user
// can receive another imbalance alert.
func WithImbalanceSuppressionDays(days int) Option {
	return func(e *Evaluator) {
		if days > 0 {
			e.imbalanceSuppressionDays = days
		}
	}
}
