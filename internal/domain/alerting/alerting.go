// Package alerting sweeps users and skills for threshold-crossing conditions
// and fires notifications through an injected notifier. Suppression state
// lives in each user's AlertSettings; it is only advanced after a delivery
// succeeds, so failed deliveries are retried on the next run.
package alerting

import (
	"context"
	"time"

	"github.com/okian/skillfade/internal/domain/freshness"
	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/clock"
	"github.com/okian/skillfade/pkg/metrics"
)

// Default alert thresholds.
const (
	defaultDecayThreshold           = freshness.StaleThreshold
	defaultDecaySuppressionDays     = 14
	defaultGapMinLearning           = 3
	defaultGapMinAgeDays            = 30
	defaultImbalanceRatioLimit      = 0.2
	defaultImbalanceWindowDays      = 30
	defaultImbalanceSuppressionDays = 30
)

// Notifier delivers one message to one recipient. A non-nil error means the
// message was not delivered and suppression state must not advance.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// Report tallies one sweep.
type Report struct {
	Decay       int `json:"decay"`
	PracticeGap int `json:"practice_gap"`
	Imbalance   int `json:"imbalance"`
	Failures    int `json:"failures"`
}

// Total returns the number of alerts delivered in the sweep.
func (r Report) Total() int {
	return r.Decay + r.PracticeGap + r.Imbalance
}

// Evaluator runs the three alert categories over a user snapshot.
type Evaluator struct {
	notifier Notifier
	clk      clock.Clock

	decayThreshold       float64
	decaySuppressionDays int

	gapMinLearning int
	gapMinAgeDays  int

	imbalanceRatioLimit      float64
	imbalanceWindowDays      int
	imbalanceSuppressionDays int
}

// New creates an evaluator with default thresholds.
func New(notifier Notifier, opts ...Option) *Evaluator {
	e := &Evaluator{
		notifier:                 notifier,
		clk:                      clock.System{},
		decayThreshold:           defaultDecayThreshold,
		decaySuppressionDays:     defaultDecaySuppressionDays,
		gapMinLearning:           defaultGapMinLearning,
		gapMinAgeDays:            defaultGapMinAgeDays,
		imbalanceRatioLimit:      defaultImbalanceRatioLimit,
		imbalanceWindowDays:      defaultImbalanceWindowDays,
		imbalanceSuppressionDays: defaultImbalanceSuppressionDays,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Sweep evaluates every category for every user and their active skills,
// mutating each user's settings in place as alerts are delivered. The caller
// persists the mutated settings afterwards. A sweep that finds nothing is a
// no-op.
func (e *Evaluator) Sweep(ctx context.Context, users []*model.User) Report {
	var report Report
	today := e.clk.Today()

	for _, user := range users {
		if !user.Settings.AlertsEnabled {
			continue
		}
		e.sweepDecay(ctx, user, today, &report)
		e.sweepPracticeGap(ctx, user, today, &report)
		e.sweepImbalance(ctx, user, today, &report)
	}

	return report
}

// sweepDecay fires for skills below the decay threshold, at most once per
// skill per suppression window.
func (e *Evaluator) sweepDecay(ctx context.Context, user *model.User, today time.Time, report *Report) {
	if !user.Settings.DecayAlertsEnabled {
		return
	}

	for _, skill := range user.Skills {
		if !skill.Active() {
			continue
		}
		f := freshness.Compute(skill.CreatedAt, skill.Learning, skill.Practice, skill.DecayRate, today)
		if f >= e.decayThreshold {
			continue
		}
		if last, ok := user.Settings.LastDecayAlert(skill.ID); ok && model.DaysBetween(last, today) < e.decaySuppressionDays {
			continue
		}

		gap := freshness.DaysSincePractice(skill.CreatedAt, skill.Practice, today)
		subject, body := decayMessage(skill.Name, f, gap)
		if err := e.notifier.Notify(ctx, user.Email, subject, body); err != nil {
			metrics.RecordNotifyFailure()
			report.Failures++
			continue
		}
		user.Settings.MarkDecayAlert(skill.ID, today)
		metrics.RecordAlertSent("decay")
		report.Decay++
	}
}

// sweepPracticeGap fires once ever per skill that accumulated learning
// without any practice.
func (e *Evaluator) sweepPracticeGap(ctx context.Context, user *model.User, today time.Time, report *Report) {
	if !user.Settings.PracticeGapAlertsEnabled {
		return
	}

	for _, skill := range user.Skills {
		if !skill.Active() {
			continue
		}
		if len(skill.Learning) < e.gapMinLearning || len(skill.Practice) != 0 {
			continue
		}
		if skill.AgeDays(today) < e.gapMinAgeDays {
			continue
		}
		if user.Settings.PracticeGapSent(skill.ID) {
			continue
		}

		subject, body := practiceGapMessage(skill.Name, len(skill.Learning))
		if err := e.notifier.Notify(ctx, user.Email, subject, body); err != nil {
			metrics.RecordNotifyFailure()
			report.Failures++
			continue
		}
		user.Settings.MarkPracticeGapSent(skill.ID)
		metrics.RecordAlertSent("practice_gap")
		report.PracticeGap++
	}
}

// sweepImbalance fires when the practice/learning ratio stayed under the
// limit for two consecutive 30-day windows, at most once per user per
// suppression window. A window with zero learning events reads as ratio 1.0:
// an idle month is not an imbalance.
func (e *Evaluator) sweepImbalance(ctx context.Context, user *model.User, today time.Time, report *Report) {
	if !user.Settings.ImbalanceAlertsEnabled {
		return
	}

	lastL, lastP := e.countWindow(user, today, 1, e.imbalanceWindowDays)
	prevL, prevP := e.countWindow(user, today, e.imbalanceWindowDays+1, 2*e.imbalanceWindowDays)

	if windowRatio(lastL, lastP) >= e.imbalanceRatioLimit || windowRatio(prevL, prevP) >= e.imbalanceRatioLimit {
		return
	}
	if last := user.Settings.LastImbalanceAlert; last != nil && model.DaysBetween(last.Time(), today) < e.imbalanceSuppressionDays {
		return
	}

	subject, body := imbalanceMessage(lastL, lastP)
	if err := e.notifier.Notify(ctx, user.Email, subject, body); err != nil {
		metrics.RecordNotifyFailure()
		report.Failures++
		return
	}
	user.Settings.MarkImbalanceAlert(today)
	metrics.RecordAlertSent("imbalance")
	report.Imbalance++
}

// countWindow counts the user's learning and practice events on active
// skills whose age in days (relative to today) falls in [minDays, maxDays].
func (e *Evaluator) countWindow(user *model.User, today time.Time, minDays, maxDays int) (learning, practice int) {
	inWindow := func(d time.Time) bool {
		age := model.DaysBetween(d, today)
		return age >= minDays && age <= maxDays
	}
	for _, skill := range user.Skills {
		if !skill.Active() {
			continue
		}
		for _, ev := range skill.Learning {
			if inWindow(ev.Date) {
				learning++
			}
		}
		for _, ev := range skill.Practice {
			if inWindow(ev.Date) {
				practice++
			}
		}
	}
	return learning, practice
}

// windowRatio is the imbalance variant of the balance ratio: zero learning
// never reads as imbalance, whatever the practice count.
func windowRatio(learning, practice int) float64 {
	if learning == 0 {
		return 1.0
	}
	return float64(practice) / float64(learning)
}
