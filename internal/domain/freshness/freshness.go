// Package freshness computes how well-retained a skill is from its event
// history. All functions are pure: the evaluation day is always an explicit
// parameter, never a clock read.
package freshness

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/skillfade/internal/domain/model"
)

// Model constants. Decay resets on practice only; learning events merely
// discount recent decay by a bounded amount.
const (
	maxFreshness    = 100.0
	boostWindowDays = 30
	boostPerEvent   = 2.0
	maxBoost        = 15.0

	// FreshThreshold and StaleThreshold split the 0-100 range into the
	// three indicator levels. Stale skills are decay-alert candidates.
	FreshThreshold = 70.0
	StaleThreshold = 40.0
)

// Scarcity warning thresholds, from the product's practice-scarcity rules.
const (
	scarcityGapDays    = 21
	scarcityRatioLimit = 5.0
)

// Compute returns the skill's freshness in [0, 100] as of the given day.
//
// Starting from 100, exponential decay applies per day since the last
// practice event (or skill creation when never practiced); learning events
// within the trailing 30-day window add 2 points each, capped at 15.
// asOf before createdAt is a caller precondition; day counts are not clamped.
func Compute(createdAt time.Time, learning, practice []model.Event, decayRate float64, asOf time.Time) float64 {
	f := maxFreshness

	lastPractice := createdAt
	for _, e := range practice {
		if e.Date.After(lastPractice) {
			lastPractice = e.Date
		}
	}

	daysSincePractice := model.DaysBetween(lastPractice, asOf)
	f *= math.Pow(1-decayRate, float64(daysSincePractice))

	recent := 0
	for _, e := range learning {
		if model.DaysBetween(e.Date, asOf) <= boostWindowDays {
			recent++
		}
	}
	boost := math.Min(float64(recent)*boostPerEvent, maxBoost)
	f = math.Min(maxFreshness, f+boost)

	return math.Max(0, math.Min(maxFreshness, f))
}

// DaysSincePractice returns the whole days between the last practice event
// (or creation when none) and asOf.
func DaysSincePractice(createdAt time.Time, practice []model.Event, asOf time.Time) int {
	last := createdAt
	for _, e := range practice {
		if e.Date.After(last) {
			last = e.Date
		}
	}
	return model.DaysBetween(last, asOf)
}

// Level is the qualitative freshness indicator.
type Level string

// Indicator levels.
const (
	LevelFresh Level = "fresh" // above FreshThreshold
	LevelAging Level = "aging" // between the thresholds
	LevelStale Level = "stale" // below StaleThreshold
)

// LevelOf maps a freshness value to its indicator level.
func LevelOf(f float64) Level {
	switch {
	case f > FreshThreshold:
		return LevelFresh
	case f >= StaleThreshold:
		return LevelAging
	default:
		return LevelStale
	}
}

// ScarcityWarnings flags imbalances between study and application.
// Returns nil when nothing is worth flagging.
func ScarcityWarnings(learningCount, practiceCount, daysSincePractice int) []string {
	var warnings []string

	if learningCount > 0 && practiceCount == 0 {
		warnings = append(warnings, "Not yet practiced")
	}

	if practiceCount > 0 && daysSincePractice > scarcityGapDays {
		warnings = append(warnings, fmt.Sprintf("No practice in %d days", daysSincePractice))
	}

	if practiceCount > 0 && float64(learningCount)/float64(practiceCount) > scarcityRatioLimit {
		warnings = append(warnings, "Theory-heavy")
	}

	return warnings
}
