package freshness

import (
	"math"
	"time"

	"github.com/okian/skillfade/internal/domain/model"
)

// Series replays Compute for every day in the window and returns one point
// per day, strictly ascending with no gaps, from max(createdAt,
// today-windowDays) through today inclusive. Values are unrounded; threshold
// comparisons (streaks, peaks) must run against these, not the display form.
//
// O(days * events). Lifetimes are a few years of human-scale logging, so the
// repeated filter stays cheap; precomputing cumulative counts would have to
// produce identical output.
func Series(createdAt time.Time, learning, practice []model.Event, decayRate float64, windowDays int, today time.Time) []model.HistoryPoint {
	today = model.Midnight(today)
	start := model.Midnight(today.AddDate(0, 0, -windowDays))
	if created := model.Midnight(createdAt); created.After(start) {
		start = created
	}

	var points []model.HistoryPoint
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		points = append(points, model.HistoryPoint{
			Date:      day,
			Freshness: Compute(createdAt, eventsThrough(learning, day), eventsThrough(practice, day), decayRate, day),
		})
	}
	return points
}

// History is Series with values rounded to two decimals, the precision the
// API serves.
func History(createdAt time.Time, learning, practice []model.Event, decayRate float64, windowDays int, today time.Time) []model.HistoryPoint {
	points := Series(createdAt, learning, practice, decayRate, windowDays, today)
	for i := range points {
		points[i].Freshness = round2(points[i].Freshness)
	}
	return points
}

// eventsThrough filters events to those dated on or before the given day.
func eventsThrough(events []model.Event, day time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if !e.Date.After(day) {
			out = append(out, e)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
