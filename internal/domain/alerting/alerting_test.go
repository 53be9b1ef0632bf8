package alerting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/clock"
	. "github.com/smartystreets/goconvey/convey"
)

type notifyCall struct {
	recipient string
	subject   string
	body      string
}

type fakeNotifier struct {
	fail  bool
	calls []notifyCall
}

func (f *fakeNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.calls = append(f.calls, notifyCall{recipient: recipient, subject: subject, body: body})
	return nil
}

func learningOn(day time.Time) model.Event {
	return model.Event{ID: "l-" + day.Format("20060102"), Date: day, Type: "reading"}
}

func practiceOn(day time.Time) model.Event {
	return model.Event{ID: "p-" + day.Format("20060102"), Date: day, Type: "exercise"}
}

func decayOnlySettings() model.AlertSettings {
	s := model.DefaultAlertSettings()
	s.PracticeGapAlertsEnabled = false
	s.ImbalanceAlertsEnabled = false
	return s
}

func TestDecayAlerts(t *testing.T) {
	Convey("Given a user with a long-unpracticed skill", t, func() {
		day0 := model.Day(2025, 6, 1)
		user := &model.User{
			ID:       "u1",
			Email:    "u1@example.com",
			Settings: decayOnlySettings(),
			Skills: []*model.Skill{{
				ID:        "s1",
				UserID:    "u1",
				Name:      "Rust",
				CreatedAt: day0.AddDate(0, 0, -60),
				DecayRate: 0.02,
			}},
		}

		sweepAt := func(n *fakeNotifier, day time.Time) Report {
			e := New(n, WithClock(clock.FixedAt(day)))
			return e.Sweep(context.Background(), []*model.User{user})
		}

		Convey("When the sweep runs", func() {
			n := &fakeNotifier{}
			report := sweepAt(n, day0)

			Convey("Then a decay alert is delivered", func() {
				So(report.Decay, ShouldEqual, 1)
				So(report.Failures, ShouldEqual, 0)
				So(n.calls, ShouldHaveLength, 1)
				So(n.calls[0].recipient, ShouldEqual, "u1@example.com")
				So(n.calls[0].subject, ShouldContainSubstring, "Rust")
				So(n.calls[0].body, ShouldContainSubstring, "60 days")
			})

			Convey("And the skill is suppressed for the next two weeks", func() {
				So(sweepAt(n, day0.AddDate(0, 0, 5)).Decay, ShouldEqual, 0)
				So(sweepAt(n, day0.AddDate(0, 0, 13)).Decay, ShouldEqual, 0)
				So(n.calls, ShouldHaveLength, 1)
			})

			Convey("And it fires again once the suppression window passes", func() {
				So(sweepAt(n, day0.AddDate(0, 0, 15)).Decay, ShouldEqual, 1)
				So(n.calls, ShouldHaveLength, 2)
			})
		})

		Convey("When delivery fails", func() {
			n := &fakeNotifier{fail: true}
			report := sweepAt(n, day0)

			Convey("Then the failure is reported and nothing is suppressed", func() {
				So(report.Decay, ShouldEqual, 0)
				So(report.Failures, ShouldEqual, 1)
				_, marked := user.Settings.LastDecayAlert("s1")
				So(marked, ShouldBeFalse)
			})

			Convey("And the next successful sweep delivers the alert", func() {
				ok := &fakeNotifier{}
				So(sweepAt(ok, day0).Decay, ShouldEqual, 1)
				So(ok.calls, ShouldHaveLength, 1)
			})
		})

		Convey("When the skill was practiced recently", func() {
			user.Skills[0].Practice = []model.Event{practiceOn(day0.AddDate(0, 0, -3))}
			n := &fakeNotifier{}

			Convey("Then no decay alert fires", func() {
				So(sweepAt(n, day0).Decay, ShouldEqual, 0)
				So(n.calls, ShouldBeEmpty)
			})
		})

		Convey("When the skill is archived", func() {
			archived := day0.AddDate(0, 0, -1)
			user.Skills[0].ArchivedAt = &archived
			n := &fakeNotifier{}

			Convey("Then it is skipped entirely", func() {
				So(sweepAt(n, day0).Decay, ShouldEqual, 0)
			})
		})

		Convey("When alerts are disabled for the user", func() {
			user.Settings.AlertsEnabled = false
			n := &fakeNotifier{}

			Convey("Then nothing fires", func() {
				So(sweepAt(n, day0).Total(), ShouldEqual, 0)
			})
		})
	})
}

func TestPracticeGapAlerts(t *testing.T) {
	Convey("Given a skill with learning sessions and no practice", t, func() {
		day0 := model.Day(2025, 6, 1)
		settings := model.DefaultAlertSettings()
		settings.DecayAlertsEnabled = false
		settings.ImbalanceAlertsEnabled = false

		skill := &model.Skill{
			ID:        "s1",
			UserID:    "u1",
			Name:      "Kubernetes",
			CreatedAt: day0.AddDate(0, 0, -40),
			DecayRate: 0.02,
			Learning: []model.Event{
				learningOn(day0.AddDate(0, 0, -20)),
				learningOn(day0.AddDate(0, 0, -10)),
				learningOn(day0.AddDate(0, 0, -5)),
			},
		}
		user := &model.User{ID: "u1", Email: "u1@example.com", Settings: settings, Skills: []*model.Skill{skill}}

		sweepAt := func(n *fakeNotifier, day time.Time) Report {
			e := New(n, WithClock(clock.FixedAt(day)))
			return e.Sweep(context.Background(), []*model.User{user})
		}

		Convey("When the sweep runs", func() {
			n := &fakeNotifier{}
			report := sweepAt(n, day0)

			Convey("Then the practice-gap alert fires once", func() {
				So(report.PracticeGap, ShouldEqual, 1)
				So(n.calls, ShouldHaveLength, 1)
				So(n.calls[0].subject, ShouldContainSubstring, "Kubernetes")
				So(n.calls[0].body, ShouldContainSubstring, "3 learning sessions")
			})

			Convey("And never again, even months later", func() {
				So(sweepAt(n, day0.AddDate(0, 6, 0)).PracticeGap, ShouldEqual, 0)
				So(n.calls, ShouldHaveLength, 1)
			})
		})

		Convey("When the skill is younger than a month", func() {
			skill.CreatedAt = day0.AddDate(0, 0, -20)
			n := &fakeNotifier{}

			Convey("Then nothing fires yet", func() {
				So(sweepAt(n, day0).PracticeGap, ShouldEqual, 0)
			})
		})

		Convey("When there are fewer than three learning sessions", func() {
			skill.Learning = skill.Learning[:2]
			n := &fakeNotifier{}

			Convey("Then nothing fires", func() {
				So(sweepAt(n, day0).PracticeGap, ShouldEqual, 0)
			})
		})

		Convey("When any practice exists", func() {
			skill.Practice = []model.Event{practiceOn(day0.AddDate(0, 0, -35))}
			n := &fakeNotifier{}

			Convey("Then nothing fires", func() {
				So(sweepAt(n, day0).PracticeGap, ShouldEqual, 0)
			})
		})
	})
}

func TestImbalanceAlerts(t *testing.T) {
	Convey("Given a user who keeps learning without practicing", t, func() {
		day0 := model.Day(2025, 6, 1)
		settings := model.DefaultAlertSettings()
		settings.DecayAlertsEnabled = false
		settings.PracticeGapAlertsEnabled = false

		skill := &model.Skill{
			ID:        "s1",
			UserID:    "u1",
			Name:      "Go",
			CreatedAt: day0.AddDate(0, 0, -90),
			DecayRate: 0.02,
		}
		for _, age := range []int{5, 10, 15, 20, 25, 35, 40, 45, 50, 55} {
			skill.Learning = append(skill.Learning, learningOn(day0.AddDate(0, 0, -age)))
		}
		user := &model.User{ID: "u1", Email: "u1@example.com", Settings: settings, Skills: []*model.Skill{skill}}

		sweepAt := func(n *fakeNotifier, day time.Time) Report {
			e := New(n, WithClock(clock.FixedAt(day)))
			return e.Sweep(context.Background(), []*model.User{user})
		}

		Convey("When both trailing months are input-heavy", func() {
			n := &fakeNotifier{}
			report := sweepAt(n, day0)

			Convey("Then one imbalance alert is delivered", func() {
				So(report.Imbalance, ShouldEqual, 1)
				So(n.calls, ShouldHaveLength, 1)
				So(n.calls[0].body, ShouldContainSubstring, "5 learning events")
			})

			Convey("And the user is suppressed for a month", func() {
				So(sweepAt(n, day0.AddDate(0, 0, 10)).Imbalance, ShouldEqual, 0)
			})

			Convey("And fires again after the suppression window when the input keeps coming", func() {
				later := day0.AddDate(0, 0, 31)
				skill.Learning = append(skill.Learning,
					learningOn(later.AddDate(0, 0, -5)),
					learningOn(later.AddDate(0, 0, -10)),
				)
				So(sweepAt(n, later).Imbalance, ShouldEqual, 1)
			})
		})

		Convey("When the recent month has enough practice", func() {
			skill.Practice = []model.Event{
				practiceOn(day0.AddDate(0, 0, -7)),
				practiceOn(day0.AddDate(0, 0, -14)),
			}
			n := &fakeNotifier{}

			Convey("Then the ratio clears the limit and nothing fires", func() {
				So(sweepAt(n, day0).Imbalance, ShouldEqual, 0)
			})
		})

		Convey("When the earlier month had no learning at all", func() {
			kept := skill.Learning[:0]
			for _, ev := range skill.Learning {
				if model.DaysBetween(ev.Date, day0) <= 30 {
					kept = append(kept, ev)
				}
			}
			skill.Learning = kept
			n := &fakeNotifier{}

			Convey("Then an idle month does not read as imbalance", func() {
				So(sweepAt(n, day0).Imbalance, ShouldEqual, 0)
			})
		})
	})
}

func TestMessages(t *testing.T) {
	Convey("Given the message templates", t, func() {
		Convey("The decay message keeps its calm tone", func() {
			subject, body := decayMessage("Rust", 35.2, 45)
			So(subject, ShouldEqual, "Skill freshness update: Rust")
			So(body, ShouldContainSubstring, "hasn't been practiced in 45 days")
			So(body, ShouldContainSubstring, "Current freshness: 35%")
			So(body, ShouldContainSubstring, "No urgency, no judgment")
		})

		Convey("The practice-gap message names the skill and session count", func() {
			subject, body := practiceGapMessage("Kubernetes", 4)
			So(subject, ShouldContainSubstring, "Kubernetes")
			So(body, ShouldContainSubstring, "4 learning sessions")
		})

		Convey("The imbalance message reports both counts", func() {
			subject, body := imbalanceMessage(7, 1)
			So(strings.ToLower(subject), ShouldContainSubstring, "balance")
			So(body, ShouldContainSubstring, "7 learning events")
			So(body, ShouldContainSubstring, "1 practice")
		})
	})
}
