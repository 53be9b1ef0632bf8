package service

import (
	"time"

	"github.com/okian/skillfade/internal/adapters/repository"
	"github.com/okian/skillfade/internal/domain/alerting"
	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/clock"
	"github.com/okian/skillfade/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore sets a pre-built store, mainly for tests.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNotifier sets the alert delivery channel.
func WithNotifier(n alerting.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock sets the clock used for skill creation dates and alert sweeps.
func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		if clk != nil {
			s.clk = clk
		}
	}
}

// WithDefaultDecayRate sets the decay rate assigned to skills created
// without one.
func WithDefaultDecayRate(rate float64) Option {
	return func(s *Service) {
		if model.ValidDecayRate(rate) {
			s.defaultDecayRate = rate
		}
	}
}

// WithDecayAlertThreshold sets the freshness score below which decay alerts
// fire.
func WithDecayAlertThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.decayThreshold = threshold
		}
	}
}

// WithSweepInterval sets how often the background alert sweep runs.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}

// WithAlertsEnabled toggles the background alert sweep.
func WithAlertsEnabled(enabled bool) Option {
	return func(s *Service) {
		s.alertsEnabled = enabled
	}
}
