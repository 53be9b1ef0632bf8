package repository

import (
	"context"
	"sync"

	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/clock"
	"github.com/okian/skillfade/pkg/metrics"
)

// MemStore is an in-memory Store guarded by a single RWMutex. Skills are
// indexed twice: by owner inside each user and flat by skill ID for the
// event-append hot path.
type MemStore struct {
	mu     sync.RWMutex
	users  map[string]*model.User
	skills map[string]*model.Skill
	events int
	clk    clock.Clock
}

// NewMemStore creates an empty store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		users:  make(map[string]*model.User),
		skills: make(map[string]*model.Skill),
		clk:    clock.System{},
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// CreateUser adds a new user.
func (s *MemStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return ErrDuplicateID
	}

	stored := user.Clone()
	// Users arrive without skills; skills attach through CreateSkill.
	stored.Skills = nil
	s.users[user.ID] = stored

	metrics.UpdateStoreUsers(len(s.users))
	return nil
}

// GetUser returns a copy of the user with all skills and events.
func (s *MemStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user.Clone(), nil
}

// Users returns a copy of every user.
func (s *MemStore) Users(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

// SaveSettings replaces the user's alert settings.
func (s *MemStore) SaveSettings(ctx context.Context, userID string, settings model.AlertSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Settings = settings.Clone()
	return nil
}

// MergeSuppression folds suppression markers into the user's live settings.
func (s *MemStore) MergeSuppression(ctx context.Context, userID string, state model.AlertSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Settings.MergeSuppression(state)
	return nil
}

// CreateSkill adds a skill under its owner.
func (s *MemStore) CreateSkill(ctx context.Context, skill *model.Skill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[skill.UserID]
	if !ok {
		return ErrUserNotFound
	}
	if _, exists := s.skills[skill.ID]; exists {
		return ErrDuplicateID
	}

	stored := skill.Clone()
	user.Skills = append(user.Skills, stored)
	s.skills[skill.ID] = stored
	s.events += len(stored.Learning) + len(stored.Practice)

	metrics.UpdateStoreSkills(len(s.skills))
	metrics.UpdateStoreEvents(s.events)
	return nil
}

// GetSkill returns a copy of the skill.
func (s *MemStore) GetSkill(ctx context.Context, skillID string) (*model.Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	skill, ok := s.skills[skillID]
	if !ok {
		return nil, ErrSkillNotFound
	}
	return skill.Clone(), nil
}

// AddEvent appends an event to the skill's collection for the given kind.
func (s *MemStore) AddEvent(ctx context.Context, skillID string, kind model.Kind, event model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	skill, ok := s.skills[skillID]
	if !ok {
		return ErrSkillNotFound
	}

	switch kind {
	case model.KindPractice:
		skill.Practice = append(skill.Practice, event)
	default:
		skill.Learning = append(skill.Learning, event)
	}
	s.events++

	metrics.UpdateStoreEvents(s.events)
	return nil
}

// ArchiveSkill marks the skill archived as of today.
func (s *MemStore) ArchiveSkill(ctx context.Context, skillID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	skill, ok := s.skills[skillID]
	if !ok {
		return ErrSkillNotFound
	}
	if skill.ArchivedAt == nil {
		day := s.clk.Today()
		skill.ArchivedAt = &day
	}
	return nil
}

// Counts returns the number of users, skills and events tracked.
func (s *MemStore) Counts(ctx context.Context) (users, skills, events int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.skills), s.events
}
