// Package records derives personal bests from a skill's full history:
// streaks, peaks, activity bursts, and practice gaps.
package records

import (
	"math"
	"sort"
	"time"

	"github.com/okian/skillfade/internal/domain/freshness"
	"github.com/okian/skillfade/internal/domain/model"
)

const weekDays = 7

// Summary is the non-persisted personal-records report for one skill.
// JSON keys match the shape the API has always served; in particular
// longest_gap_recovered_days keeps its historical name even though it
// measures the raw maximum inter-practice gap, with no rebound check.
type Summary struct {
	LongestFreshStreakDays  int        `json:"longest_fresh_streak_days"`
	LongestFreshStreakStart *time.Time `json:"longest_fresh_streak_start,omitempty"`
	LongestFreshStreakEnd   *time.Time `json:"longest_fresh_streak_end,omitempty"`

	PeakFreshness     float64    `json:"peak_freshness"`
	PeakFreshnessDate *time.Time `json:"peak_freshness_date,omitempty"`

	MostActiveWeekStart  *time.Time `json:"most_active_week_start,omitempty"`
	MostActiveWeekEvents int        `json:"most_active_week_events"`

	LongestPracticeGapDays int `json:"longest_gap_recovered_days"`

	TotalLearningEvents int `json:"total_learning_events"`
	TotalPracticeEvents int `json:"total_practice_events"`
}

// Calculate scans the skill's reconstructed history since creation plus its
// raw event lists. The four record computations are independent; they share
// one history pass to avoid recomputation.
func Calculate(createdAt time.Time, learning, practice []model.Event, decayRate float64, today time.Time) Summary {
	lifetime := model.DaysBetween(createdAt, today)
	// Unrounded values: a day sitting just above the fresh threshold must
	// extend the streak even when its display form rounds down to it.
	history := freshness.Series(createdAt, learning, practice, decayRate, lifetime, today)

	s := Summary{
		TotalLearningEvents: len(learning),
		TotalPracticeEvents: len(practice),
	}
	s.scanStreak(history)
	s.scanPeak(history)
	s.scanActiveWeek(learning, practice)
	s.scanPracticeGap(practice)
	return s
}

// scanStreak finds the longest contiguous run of days above the fresh
// threshold. The run resets on any day at or below it.
func (s *Summary) scanStreak(history []model.HistoryPoint) {
	current := 0
	var currentStart time.Time

	for _, p := range history {
		if p.Freshness <= freshness.FreshThreshold {
			current = 0
			continue
		}
		if current == 0 {
			currentStart = p.Date
		}
		current++
		if current > s.LongestFreshStreakDays {
			s.LongestFreshStreakDays = current
			start, end := currentStart, p.Date
			s.LongestFreshStreakStart = &start
			s.LongestFreshStreakEnd = &end
		}
	}
}

// scanPeak records the maximum freshness and the first day it occurred.
func (s *Summary) scanPeak(history []model.HistoryPoint) {
	for _, p := range history {
		if p.Freshness > s.PeakFreshness {
			s.PeakFreshness = p.Freshness
			date := p.Date
			s.PeakFreshnessDate = &date
		}
	}
	s.PeakFreshness = math.Round(s.PeakFreshness*10) / 10
}

// scanActiveWeek tries every event date as a 7-day window start (windows
// anchor on events, not the calendar) and keeps the densest one.
func (s *Summary) scanActiveWeek(learning, practice []model.Event) {
	dates := make([]time.Time, 0, len(learning)+len(practice))
	for _, e := range learning {
		dates = append(dates, model.Midnight(e.Date))
	}
	for _, e := range practice {
		dates = append(dates, model.Midnight(e.Date))
	}
	if len(dates) == 0 {
		return
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, start := range dates {
		count := 0
		for _, d := range dates {
			if diff := model.DaysBetween(start, d); diff >= 0 && diff < weekDays {
				count++
			}
		}
		if count > s.MostActiveWeekEvents {
			s.MostActiveWeekEvents = count
			windowStart := start
			s.MostActiveWeekStart = &windowStart
		}
	}
}

// scanPracticeGap records the longest span between two chronologically
// consecutive practice events. Needs at least two; zero otherwise.
func (s *Summary) scanPracticeGap(practice []model.Event) {
	if len(practice) < 2 {
		return
	}
	dates := make([]time.Time, len(practice))
	for i, e := range practice {
		dates[i] = model.Midnight(e.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for i := 1; i < len(dates); i++ {
		if gap := model.DaysBetween(dates[i-1], dates[i]); gap > s.LongestPracticeGapDays {
			s.LongestPracticeGapDays = gap
		}
	}
}
