// Package model contains domain models passed between layers.
package model

import "time"

// Decay rate bounds. The rate is the freshness fraction lost per day without
// practice; validated at the API boundary, assumed valid inside the engine.
const (
	DefaultDecayRate = 0.02
	MinDecayRate     = 0.001 // exclusive
	MaxDecayRate     = 0.5   // inclusive
)

// ValidDecayRate reports whether r falls in (MinDecayRate, MaxDecayRate].
func ValidDecayRate(r float64) bool {
	return r > MinDecayRate && r <= MaxDecayRate
}

// Kind distinguishes the two disjoint event families.
type Kind string

// Event kinds.
const (
	KindLearning Kind = "learning"
	KindPractice Kind = "practice"
)

// Event type vocabularies. Learning events record input (study); practice
// events record output (application). The two sets never overlap.
var (
	learningTypes = map[string]struct{}{
		"reading":       {},
		"video":         {},
		"course":        {},
		"article":       {},
		"documentation": {},
		"tutorial":      {},
	}
	practiceTypes = map[string]struct{}{
		"exercise": {},
		"project":  {},
		"work":     {},
		"teaching": {},
		"writing":  {},
		"building": {},
	}
)

// KindOfType resolves an event type string to its kind.
// Returns false when the type belongs to neither vocabulary.
func KindOfType(eventType string) (Kind, bool) {
	if _, ok := learningTypes[eventType]; ok {
		return KindLearning, true
	}
	if _, ok := practiceTypes[eventType]; ok {
		return KindPractice, true
	}
	return "", false
}

// Event is an immutable (date, type) record owned by a skill.
type Event struct {
	ID   string    `json:"id,omitempty"`
	Date time.Time `json:"date"`
	Type string    `json:"type"`
}

// Skill groups a user's learning and practice events under one decay rate.
// Freshness is never stored; it is recomputed from these collections.
type Skill struct {
	ID              string
	UserID          string
	Name            string
	CreatedAt       time.Time
	DecayRate       float64
	TargetFreshness *float64
	ArchivedAt      *time.Time
	Learning        []Event
	Practice        []Event
}

// Active reports whether the skill participates in alert sweeps.
func (s *Skill) Active() bool {
	return s.ArchivedAt == nil
}

// AgeDays returns the skill's age in whole days as of the given day.
func (s *Skill) AgeDays(asOf time.Time) int {
	return DaysBetween(s.CreatedAt, asOf)
}

// LastPractice returns the most recent practice date, or the creation date
// when the skill has never been practiced.
func (s *Skill) LastPractice() time.Time {
	last := s.CreatedAt
	for _, e := range s.Practice {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return last
}

// Clone returns a deep copy of the skill.
func (s *Skill) Clone() *Skill {
	out := *s
	if s.TargetFreshness != nil {
		v := *s.TargetFreshness
		out.TargetFreshness = &v
	}
	if s.ArchivedAt != nil {
		v := *s.ArchivedAt
		out.ArchivedAt = &v
	}
	out.Learning = append([]Event(nil), s.Learning...)
	out.Practice = append([]Event(nil), s.Practice...)
	return &out
}

// User owns skills and the alert suppression state.
type User struct {
	ID       string
	Email    string
	Settings AlertSettings
	Skills   []*Skill
}

// Clone returns a deep copy of the user, skills and suppression state
// included.
func (u *User) Clone() *User {
	out := *u
	out.Settings = u.Settings.Clone()
	if u.Skills != nil {
		out.Skills = make([]*Skill, len(u.Skills))
		for i, s := range u.Skills {
			out.Skills[i] = s.Clone()
		}
	}
	return &out
}

// HistoryPoint is one day of a reconstructed freshness series.
type HistoryPoint struct {
	Date      time.Time `json:"date"`
	Freshness float64   `json:"freshness"`
}

// Midnight truncates t to its UTC calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Day builds a UTC calendar day. Test and seed helper.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from one day to another.
// Negative when to precedes from.
func DaysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)) / (24 * time.Hour))
}
