// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	eventqueue "github.com/okian/skillfade/internal/adapters/mq/queue"
	workerpool "github.com/okian/skillfade/internal/adapters/mq/worker"
	"github.com/okian/skillfade/internal/adapters/notify"
	"github.com/okian/skillfade/internal/adapters/repository"
	"github.com/okian/skillfade/internal/domain/alerting"
	"github.com/okian/skillfade/internal/domain/dedupe"
	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/clock"
	"github.com/okian/skillfade/pkg/logger"
	"github.com/okian/skillfade/pkg/metrics"
)

// Service wires the store, ingestion pipeline and alert evaluator behind the
// API dependency surface.
type Service struct {
	mu sync.RWMutex

	// sweepMu serializes alert sweeps. The ticker and the manual HTTP
	// trigger can overlap; two sweeps over the same snapshot would
	// double-send inside the suppression window.
	sweepMu sync.Mutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool
	evaluator  *alerting.Evaluator
	notifier   alerting.Notifier
	clk        clock.Clock

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	defaultDecayRate float64
	decayThreshold   float64
	sweepInterval    time.Duration
	alertsEnabled    bool

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:      runtime.NumCPU() * 2, // Default to 2x CPU cores
		queueSize:        100000,
		dedupeSize:       50000,
		defaultDecayRate: model.DefaultDecayRate,
		sweepInterval:    time.Hour,
		alertsEnabled:    true,
		clk:              clock.System{},
		stopCh:           make(chan struct{}),
		logger:           nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting skill freshness service...")

	// Initialize components
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithClock(s.clk))
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)
	if s.notifier == nil {
		s.notifier = notify.NewRecorder()
		s.logger.Warn(ctx, "no notifier configured; alerts are recorded, not delivered")
	}
	s.evaluator = alerting.New(s.notifier,
		alerting.WithClock(s.clk),
		alerting.WithDecayThreshold(s.decayThreshold),
	)

	// Create and start worker pool writing into the store
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "skill freshness service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping skill freshness service...")

	// Close the queue first so the workers drain and exit
	if q, ok := s.eventQueue.(*eventqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Signal background loops to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "skill freshness service stopped")
}

// StartSweepTimer runs alert sweeps on a fixed interval until the context is
// canceled or the service stops. No-op when alerts are disabled.
func (s *Service) StartSweepTimer(ctx context.Context) {
	if !s.alertsEnabled {
		s.logger.Info(ctx, "alert sweeps disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				report, err := s.RunSweep(ctx)
				if err != nil {
					s.logger.Error(ctx, "alert sweep failed", logger.Error(err))
					continue
				}
				s.logger.Info(ctx, "alert sweep finished",
					logger.Int("decay", report.Decay),
					logger.Int("practice_gap", report.PracticeGap),
					logger.Int("imbalance", report.Imbalance),
					logger.Int("failures", report.Failures),
				)
			}
		}
	}()
}

// RunSweep evaluates every user once and persists the mutated suppression
// state. Sweeps serialize on sweepMu, and only the suppression markers are
// written back, merged into the live settings under the store lock; a
// settings update that lands mid-sweep is never reverted by the snapshot.
func (s *Service) RunSweep(ctx context.Context) (alerting.Report, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	start := time.Now()

	users, err := s.store.Users(ctx)
	if err != nil {
		return alerting.Report{}, err
	}

	report := s.evaluator.Sweep(ctx, users)

	for _, u := range users {
		if err := s.store.MergeSuppression(ctx, u.ID, u.Settings); err != nil {
			s.logger.Error(ctx, "failed to persist alert suppression state",
				logger.String("userID", u.ID),
				logger.Error(err),
			)
		}
	}

	metrics.RecordSweep()
	metrics.RecordSweepDuration(float64(time.Since(start).Milliseconds()))
	return report, nil
}

// SeenAndRecord atomically checks if an event id was seen and records it if
// not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	return s.deduper.SeenAndRecord(ctx, id)
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits an accepted event for asynchronous persistence.
func (s *Service) Enqueue(ctx context.Context, sub eventqueue.Submission) bool {
	s.logger.Debug(ctx, "enqueueing submission",
		logger.String("eventID", sub.EventID),
		logger.String("skillID", sub.SkillID),
		logger.String("type", sub.Type),
	)
	return s.eventQueue.Enqueue(ctx, sub)
}

// CreateUser registers a new user with default alert settings.
func (s *Service) CreateUser(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Settings: model.DefaultAlertSettings(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user with all skills and events.
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.GetUser(ctx, userID)
}

// UpdateSettings replaces the user's alert settings.
func (s *Service) UpdateSettings(ctx context.Context, userID string, settings model.AlertSettings) error {
	return s.store.SaveSettings(ctx, userID, settings)
}

// CreateSkill registers a new skill under its owner. A nil decay rate falls
// back to the service default.
func (s *Service) CreateSkill(ctx context.Context, userID, name string, decayRate, targetFreshness *float64) (*model.Skill, error) {
	rate := s.defaultDecayRate
	if decayRate != nil {
		rate = *decayRate
	}

	skill := &model.Skill{
		ID:              uuid.NewString(),
		UserID:          userID,
		Name:            name,
		CreatedAt:       s.clk.Today(),
		DecayRate:       rate,
		TargetFreshness: targetFreshness,
	}
	if err := s.store.CreateSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// GetSkill returns the skill with its event collections.
func (s *Service) GetSkill(ctx context.Context, skillID string) (*model.Skill, error) {
	return s.store.GetSkill(ctx, skillID)
}

// ArchiveSkill retires the skill from alert sweeps.
func (s *Service) ArchiveSkill(ctx context.Context, skillID string) error {
	return s.store.ArchiveSkill(ctx, skillID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		users, skills, events := s.store.Counts(ctx)

		stats["queueLength"] = queueLen
		stats["totalUsers"] = users
		stats["totalSkills"] = skills
		stats["totalEvents"] = events

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreUsers(users)
		metrics.UpdateStoreSkills(skills)
		metrics.UpdateStoreEvents(events)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
