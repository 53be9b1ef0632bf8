package freshness_test

import (
	"testing"
	"time"

	"github.com/okian/skillfade/internal/domain/freshness"
	"github.com/okian/skillfade/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHistory(t *testing.T) {
	Convey("Given a skill with a mixed event history", t, func() {
		today := model.Day(2025, time.June, 30)
		created := today.AddDate(0, 0, -45)
		learning := learningOn(created.AddDate(0, 0, 2), created.AddDate(0, 0, 20))
		practice := practiceOn(created.AddDate(0, 0, 10), created.AddDate(0, 0, 30))

		Convey("When reconstructing the last 90 days", func() {
			points := freshness.History(created, learning, practice, model.DefaultDecayRate, 90, today)

			Convey("Then the series starts at creation (window clamped)", func() {
				So(points[0].Date, ShouldEqual, created)
			})

			Convey("Then the series ends today", func() {
				So(points[len(points)-1].Date, ShouldEqual, today)
			})

			Convey("Then every day appears exactly once, ascending", func() {
				So(len(points), ShouldEqual, 46)
				for i := 1; i < len(points); i++ {
					So(points[i].Date, ShouldEqual, points[i-1].Date.AddDate(0, 0, 1))
				}
			})

			Convey("Then every value is within bounds", func() {
				for _, p := range points {
					So(p.Freshness, ShouldBeBetweenOrEqual, 0, 100)
				}
			})

			Convey("Then each point matches a direct computation on that day", func() {
				day := created.AddDate(0, 0, 15)
				var got float64
				for _, p := range points {
					if p.Date.Equal(day) {
						got = p.Freshness
					}
				}
				want := freshness.Compute(created, learningOn(created.AddDate(0, 0, 2)), practiceOn(created.AddDate(0, 0, 10)), model.DefaultDecayRate, day)
				So(got, ShouldAlmostEqual, want, 0.005)
			})
		})

		Convey("When the window is narrower than the skill's lifetime", func() {
			points := freshness.History(created, learning, practice, model.DefaultDecayRate, 7, today)

			So(len(points), ShouldEqual, 8)
			So(points[0].Date, ShouldEqual, today.AddDate(0, 0, -7))
		})

		Convey("When recomputing with identical inputs", func() {
			a := freshness.History(created, learning, practice, model.DefaultDecayRate, 90, today)
			b := freshness.History(created, learning, practice, model.DefaultDecayRate, 90, today)

			So(a, ShouldResemble, b)
		})
	})

	Convey("Given a skill created today", t, func() {
		today := model.Day(2025, time.June, 30)
		points := freshness.History(today, nil, nil, model.DefaultDecayRate, 90, today)

		Convey("Then the series is a single 100-point day", func() {
			So(len(points), ShouldEqual, 1)
			So(points[0].Freshness, ShouldEqual, 100.0)
		})
	})
}
