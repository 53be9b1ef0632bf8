// Package repository defines the user/skill/event store interface and errors.
package repository

import (
	"context"

	"github.com/okian/skillfade/internal/domain/model"
)

// Store provides read/write access to users, their skills and events.
// Readers receive deep copies; mutating a returned value never touches the
// stored state.
type Store interface {
	// CreateUser adds a new user. Returns ErrDuplicateID when the ID is
	// already taken.
	CreateUser(ctx context.Context, user *model.User) error

	// GetUser returns a copy of the user with all skills and events.
	// Returns ErrUserNotFound if the user is unknown.
	GetUser(ctx context.Context, userID string) (*model.User, error)

	// Users returns a copy of every user, for alert sweeps.
	Users(ctx context.Context) ([]*model.User, error)

	// SaveSettings replaces the user's alert settings.
	SaveSettings(ctx context.Context, userID string, settings model.AlertSettings) error

	// MergeSuppression folds suppression markers from a sweep snapshot
	// into the user's live settings under the store lock. Enable flags are
	// untouched, so a concurrent SaveSettings is never reverted. Returns
	// ErrUserNotFound if the user is unknown.
	MergeSuppression(ctx context.Context, userID string, state model.AlertSettings) error

	// CreateSkill adds a skill under its owner. Returns ErrUserNotFound
	// when the owner is unknown and ErrDuplicateID when the skill ID is
	// already taken.
	CreateSkill(ctx context.Context, skill *model.Skill) error

	// GetSkill returns a copy of the skill. Returns ErrSkillNotFound if
	// the skill is unknown.
	GetSkill(ctx context.Context, skillID string) (*model.Skill, error)

	// AddEvent appends an event to the skill's learning or practice
	// collection according to kind. Returns ErrSkillNotFound if the skill
	// is unknown.
	AddEvent(ctx context.Context, skillID string, kind model.Kind, event model.Event) error

	// ArchiveSkill marks the skill archived as of the given day. Archiving
	// an archived skill is a no-op.
	ArchiveSkill(ctx context.Context, skillID string) error

	// Counts returns the number of users, skills and events tracked.
	Counts(ctx context.Context) (users, skills, events int)
}
