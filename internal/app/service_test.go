package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	eventqueue "github.com/okian/skillfade/internal/adapters/mq/queue"
	"github.com/okian/skillfade/internal/adapters/notify"
	"github.com/okian/skillfade/internal/adapters/repository"
	"github.com/okian/skillfade/internal/domain/model"
	"github.com/okian/skillfade/pkg/clock"
	"github.com/okian/skillfade/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := New(WithWorkerCount(2), WithQueueSize(100), WithDedupeSize(100))

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then stats report the running configuration", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["workerCount"], ShouldEqual, 2)
				So(stats["totalUsers"], ShouldEqual, 0)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When stopped twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			So(func() { svc.Stop() }, ShouldNotPanic)
		})
	})
}

func TestUserAndSkillRegistration(t *testing.T) {
	Convey("Given a running service pinned to a fixed day", t, func() {
		ctx := context.Background()
		today := model.Day(2025, 6, 1)
		svc := New(
			WithWorkerCount(1),
			WithClock(clock.FixedAt(today)),
			WithDefaultDecayRate(0.02),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a user and skill are created", func() {
			user, err := svc.CreateUser(ctx, "u@example.com")
			So(err, ShouldBeNil)
			So(user.ID, ShouldNotBeEmpty)
			So(user.Settings.AlertsEnabled, ShouldBeTrue)

			skill, err := svc.CreateSkill(ctx, user.ID, "Go", nil, nil)
			So(err, ShouldBeNil)

			Convey("Then the skill carries the defaults", func() {
				So(skill.DecayRate, ShouldEqual, 0.02)
				So(skill.CreatedAt.Equal(today), ShouldBeTrue)

				got, err := svc.GetSkill(ctx, skill.ID)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Go")
			})

			Convey("And an explicit decay rate wins", func() {
				rate := 0.05
				fast, err := svc.CreateSkill(ctx, user.ID, "Rust", &rate, nil)
				So(err, ShouldBeNil)
				So(fast.DecayRate, ShouldEqual, 0.05)
			})

			Convey("And settings round-trip", func() {
				settings := user.Settings
				settings.DecayAlertsEnabled = false
				So(svc.UpdateSettings(ctx, user.ID, settings), ShouldBeNil)

				got, err := svc.GetUser(ctx, user.ID)
				So(err, ShouldBeNil)
				So(got.Settings.DecayAlertsEnabled, ShouldBeFalse)
			})
		})

		Convey("When a skill is created for an unknown user", func() {
			_, err := svc.CreateSkill(ctx, "nope", "Go", nil, nil)
			So(errors.Is(err, repository.ErrUserNotFound), ShouldBeTrue)
		})
	})
}

func TestIngestionToReports(t *testing.T) {
	Convey("Given a running service with one skill", t, func() {
		ctx := context.Background()
		today := model.Day(2025, 6, 1)
		svc := New(WithWorkerCount(1), WithClock(clock.FixedAt(today)))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		user, err := svc.CreateUser(ctx, "u@example.com")
		So(err, ShouldBeNil)
		skill, err := svc.CreateSkill(ctx, user.ID, "Go", nil, nil)
		So(err, ShouldBeNil)

		Convey("When events flow through the queue", func() {
			So(svc.SeenAndRecord(ctx, "e1"), ShouldBeFalse)
			ok := svc.Enqueue(ctx, eventqueue.Submission{
				EventID: "e1",
				SkillID: skill.ID,
				Kind:    model.KindPractice,
				Date:    today.AddDate(0, 0, -2),
				Type:    "exercise",
			})
			So(ok, ShouldBeTrue)

			So(waitFor(func() bool {
				got, err := svc.GetSkill(ctx, skill.ID)
				return err == nil && len(got.Practice) == 1
			}), ShouldBeTrue)

			Convey("Then the freshness report reflects the practice", func() {
				report, err := svc.Freshness(ctx, skill.ID, nil)
				So(err, ShouldBeNil)
				So(report.PracticeCount, ShouldEqual, 1)
				So(report.DaysSincePractice, ShouldEqual, 2)
				So(report.Freshness, ShouldBeBetween, 95, 100)
			})

			Convey("And the history series ends today", func() {
				points, err := svc.History(ctx, skill.ID, 30)
				So(err, ShouldBeNil)
				So(points, ShouldHaveLength, 1) // skill created today
				So(points[0].Date.Equal(today), ShouldBeTrue)
			})

			Convey("And balance counts the lifetime events", func() {
				report, err := svc.Balance(ctx, skill.ID)
				So(err, ShouldBeNil)
				So(report.PracticeCount, ShouldEqual, 1)
				So(report.LearningCount, ShouldEqual, 0)
			})

			Convey("And records see the peak", func() {
				report, err := svc.Records(ctx, skill.ID)
				So(err, ShouldBeNil)
				So(report.SkillID, ShouldEqual, skill.ID)
				So(report.PeakFreshness, ShouldEqual, 100.0)
			})

			Convey("And the same event ID reads as seen", func() {
				So(svc.SeenAndRecord(ctx, "e1"), ShouldBeTrue)
				So(svc.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestRunSweepPersistsSuppression(t *testing.T) {
	Convey("Given a service with a stale skill and a recording notifier", t, func() {
		ctx := context.Background()
		today := model.Day(2025, 6, 1)
		recorder := notify.NewRecorder()

		store := repository.NewMemStore(repository.WithClock(clock.FixedAt(today)))
		So(store.CreateUser(ctx, &model.User{ID: "u1", Email: "u1@example.com", Settings: model.DefaultAlertSettings()}), ShouldBeNil)
		So(store.CreateSkill(ctx, &model.Skill{
			ID:        "s1",
			UserID:    "u1",
			Name:      "Rust",
			CreatedAt: today.AddDate(0, 0, -60),
			DecayRate: 0.02,
		}), ShouldBeNil)

		svc := New(
			WithWorkerCount(1),
			WithClock(clock.FixedAt(today)),
			WithStore(store),
			WithNotifier(recorder),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a sweep runs", func() {
			report, err := svc.RunSweep(ctx)
			So(err, ShouldBeNil)

			Convey("Then the decay alert is delivered", func() {
				So(report.Decay, ShouldEqual, 1)
				So(recorder.Messages(), ShouldHaveLength, 1)
				So(recorder.Messages()[0].Recipient, ShouldEqual, "u1@example.com")
			})

			Convey("And the suppression state is persisted", func() {
				user, err := svc.GetUser(ctx, "u1")
				So(err, ShouldBeNil)
				_, marked := user.Settings.LastDecayAlert("s1")
				So(marked, ShouldBeTrue)

				again, err := svc.RunSweep(ctx)
				So(err, ShouldBeNil)
				So(again.Decay, ShouldEqual, 0)
			})
		})
	})
}

// gatedNotifier holds the first delivery open until released, keeping a
// sweep in flight while the test mutates settings underneath it.
type gatedNotifier struct {
	rec     *notify.Recorder
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedNotifier() *gatedNotifier {
	return &gatedNotifier{
		rec:     notify.NewRecorder(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	g.once.Do(func() { close(g.entered) })
	<-g.release
	return g.rec.Notify(ctx, recipient, subject, body)
}

func TestRunSweepKeepsConcurrentSettingsUpdate(t *testing.T) {
	Convey("Given a sweep held open mid-delivery", t, func() {
		ctx := context.Background()
		today := model.Day(2025, 6, 1)
		gate := newGatedNotifier()

		store := repository.NewMemStore(repository.WithClock(clock.FixedAt(today)))
		So(store.CreateUser(ctx, &model.User{ID: "u1", Email: "u1@example.com", Settings: model.DefaultAlertSettings()}), ShouldBeNil)
		So(store.CreateSkill(ctx, &model.Skill{
			ID:        "s1",
			UserID:    "u1",
			Name:      "Rust",
			CreatedAt: today.AddDate(0, 0, -60),
			DecayRate: 0.02,
		}), ShouldBeNil)

		svc := New(
			WithWorkerCount(1),
			WithClock(clock.FixedAt(today)),
			WithStore(store),
			WithNotifier(gate),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		done := make(chan struct{})
		go func() {
			_, _ = svc.RunSweep(ctx)
			close(done)
		}()
		<-gate.entered

		Convey("When the user disables alerts while the sweep is in flight", func() {
			user, err := svc.GetUser(ctx, "u1")
			So(err, ShouldBeNil)
			settings := user.Settings
			settings.AlertsEnabled = false
			So(svc.UpdateSettings(ctx, "u1", settings), ShouldBeNil)

			close(gate.release)
			<-done

			Convey("Then the disable survives the sweep write-back", func() {
				after, err := svc.GetUser(ctx, "u1")
				So(err, ShouldBeNil)
				So(after.Settings.AlertsEnabled, ShouldBeFalse)

				// The marker from the delivery that was already in
				// flight still lands.
				_, marked := after.Settings.LastDecayAlert("s1")
				So(marked, ShouldBeTrue)
				So(gate.rec.Messages(), ShouldHaveLength, 1)
			})
		})
	})
}

func TestConcurrentSweepsSerialize(t *testing.T) {
	Convey("Given two sweeps racing over the same stale skill", t, func() {
		ctx := context.Background()
		today := model.Day(2025, 6, 1)
		gate := newGatedNotifier()

		store := repository.NewMemStore(repository.WithClock(clock.FixedAt(today)))
		So(store.CreateUser(ctx, &model.User{ID: "u1", Email: "u1@example.com", Settings: model.DefaultAlertSettings()}), ShouldBeNil)
		So(store.CreateSkill(ctx, &model.Skill{
			ID:        "s1",
			UserID:    "u1",
			Name:      "Go",
			CreatedAt: today.AddDate(0, 0, -60),
			DecayRate: 0.02,
		}), ShouldBeNil)

		svc := New(
			WithWorkerCount(1),
			WithClock(clock.FixedAt(today)),
			WithStore(store),
			WithNotifier(gate),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		done := make(chan struct{}, 2)
		for i := 0; i < 2; i++ {
			go func() {
				_, _ = svc.RunSweep(ctx)
				done <- struct{}{}
			}()
		}
		<-gate.entered
		close(gate.release)
		<-done
		<-done

		Convey("Then only one alert is delivered", func() {
			So(gate.rec.Messages(), ShouldHaveLength, 1)

			user, err := svc.GetUser(ctx, "u1")
			So(err, ShouldBeNil)
			_, marked := user.Settings.LastDecayAlert("s1")
			So(marked, ShouldBeTrue)
		})
	})
}
