package dedupe

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		ctx := context.Background()
		d := NewInMemoryDeduper()

		Convey("When an ID is recorded twice", func() {
			So(d.SeenAndRecord(ctx, "e1"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "e1"), ShouldBeTrue)
			So(d.Size(), ShouldEqual, 1)
		})

		Convey("When an ID is unrecorded", func() {
			So(d.SeenAndRecord(ctx, "e1"), ShouldBeFalse)
			d.Unrecord(ctx, "e1")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "e1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording an unknown ID", func() {
			So(func() { d.Unrecord(ctx, "nope") }, ShouldNotPanic)
			So(d.Size(), ShouldEqual, 0)
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to three IDs", t, func() {
		ctx := context.Background()
		d := NewInMemoryDeduper(WithMaxSize(3))

		So(d.SeenAndRecord(ctx, "e1"), ShouldBeFalse)
		So(d.SeenAndRecord(ctx, "e2"), ShouldBeFalse)
		So(d.SeenAndRecord(ctx, "e3"), ShouldBeFalse)

		Convey("When a fourth ID arrives", func() {
			So(d.SeenAndRecord(ctx, "e4"), ShouldBeFalse)

			Convey("Then the oldest ID was evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "e1"), ShouldBeFalse) // forgotten, re-records
			})

			Convey("And the newer IDs are still tracked", func() {
				So(d.SeenAndRecord(ctx, "e3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "e4"), ShouldBeTrue)
			})
		})

		Convey("When an unrecorded ID left a stale ring slot", func() {
			d.Unrecord(ctx, "e2")
			So(d.SeenAndRecord(ctx, "e4"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "e5"), ShouldBeFalse)

			Convey("Then eviction skips the stale slot and keeps the bound", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "e5"), ShouldBeTrue)
			})
		})
	})
}

func TestUnboundedMode(t *testing.T) {
	Convey("Given an unbounded deduper", t, func() {
		ctx := context.Background()
		d := NewInMemoryDeduper(WithMaxSize(0))

		for i := 0; i < 1000; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("e%d", i)), ShouldBeFalse)
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			So(d.SeenAndRecord(ctx, "e0"), ShouldBeTrue)
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given concurrent writers racing on the same IDs", t, func() {
		ctx := context.Background()
		d := NewInMemoryDeduper()

		const writers = 8
		const ids = 100

		var firsts sync.Map
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < ids; i++ {
					id := fmt.Sprintf("e%d", i)
					if !d.SeenAndRecord(ctx, id) {
						if _, loaded := firsts.LoadOrStore(id, true); loaded {
							t.Errorf("id %s recorded as new twice", id)
						}
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each ID was newly recorded exactly once", func() {
			So(d.Size(), ShouldEqual, ids)
		})
	})
}
