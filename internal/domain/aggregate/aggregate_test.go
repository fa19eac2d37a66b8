package aggregate_test

import (
	"errors"
	"testing"

	"github.com/fieldvision/filmgrade/internal/domain/aggregate"
	"github.com/fieldvision/filmgrade/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func graded(player string, week int, score, catchRate, points float64) model.GradedRecord {
	return model.GradedRecord{
		Record:  model.PlayerWeekRecord{Player: player, Week: week, Snaps: 30, Targets: 5, Catches: 4, Drops: 1},
		Metrics: model.DerivedMetrics{CatchRate: catchRate},
		Grade:   model.GradeResult{Score: score, RawScore: score},
		Codes:   model.CodeSummary{Points: points, Counts: map[string]int{"ER": 1}},
	}
}

func TestGroupBy(t *testing.T) {
	Convey("Given graded records for two players across two weeks", t, func() {
		rows := []model.GradedRecord{
			graded("Alpha", 1, 80, 0.8, 10),
			graded("Alpha", 2, 90, 0.6, 5),
			graded("Beta", 1, 70, 0.5, 2),
			graded("Beta", 2, 100, 0.9, 8),
		}

		Convey("When grouping by player", func() {
			summaries, err := aggregate.GroupBy(rows, aggregate.ByPlayer)

			Convey("Then scores and rates are averaged, code points summed", func() {
				So(err, ShouldBeNil)
				So(len(summaries), ShouldEqual, 2)

				So(summaries[0].Key, ShouldEqual, "Alpha")
				So(summaries[0].Score, ShouldAlmostEqual, 85.0)
				So(summaries[0].CatchRate, ShouldAlmostEqual, 0.7)
				So(summaries[0].CodePoints, ShouldAlmostEqual, 15.0)
				So(summaries[0].Records, ShouldEqual, 2)

				So(summaries[1].Key, ShouldEqual, "Beta")
				So(summaries[1].Score, ShouldAlmostEqual, 85.0)
			})

			Convey("And ties sort by key for a stable order", func() {
				So(summaries[0].Key, ShouldBeLessThan, summaries[1].Key)
			})
		})

		Convey("When grouping by week", func() {
			summaries, err := aggregate.GroupBy(rows, aggregate.ByWeek)

			Convey("Then weeks sort by mean score, best first", func() {
				So(err, ShouldBeNil)
				So(len(summaries), ShouldEqual, 2)
				So(summaries[0].Key, ShouldEqual, "2")
				So(summaries[0].Score, ShouldAlmostEqual, 95.0)
				So(summaries[1].Key, ShouldEqual, "1")
				So(summaries[1].Score, ShouldAlmostEqual, 75.0)
			})
		})

		Convey("When grouping by an unknown key", func() {
			_, err := aggregate.GroupBy(rows, aggregate.GroupKey("position"))

			Convey("Then it fails with the sentinel error", func() {
				So(errors.Is(err, aggregate.ErrUnknownGroupKey), ShouldBeTrue)
			})
		})
	})
}

func TestParseGroupKey(t *testing.T) {
	Convey("Given user-supplied grouping keys", t, func() {
		Convey("Then player, week and empty are accepted", func() {
			k, err := aggregate.ParseGroupKey("player")
			So(err, ShouldBeNil)
			So(k, ShouldEqual, aggregate.ByPlayer)

			k, err = aggregate.ParseGroupKey("week")
			So(err, ShouldBeNil)
			So(k, ShouldEqual, aggregate.ByWeek)

			k, err = aggregate.ParseGroupKey("")
			So(err, ShouldBeNil)
			So(k, ShouldEqual, aggregate.ByPlayer)
		})

		Convey("And anything else is rejected", func() {
			_, err := aggregate.ParseGroupKey("team")
			So(errors.Is(err, aggregate.ErrUnknownGroupKey), ShouldBeTrue)
		})
	})
}

func TestByPlayerWeek(t *testing.T) {
	Convey("Given two rows for the same player-week and one for another", t, func() {
		first := graded("Alpha", 1, 80, 0.8, 10)
		second := graded("Alpha", 1, 90, 0.6, 4)
		second.Codes.Counts = map[string]int{"ER": 2, "MA": 1}
		rows := []model.GradedRecord{first, second, graded("Beta", 3, 70, 0.5, 2)}

		Convey("When rolled up per player-week", func() {
			groups := aggregate.ByPlayerWeek(rows)

			Convey("Then duplicates merge: stats summed, scores averaged", func() {
				So(len(groups), ShouldEqual, 2)

				alpha := groups[0]
				So(alpha.Player, ShouldEqual, "Alpha")
				So(alpha.Week, ShouldEqual, 1)
				So(alpha.Records, ShouldEqual, 2)
				So(alpha.Totals.Snaps, ShouldEqual, 60)
				So(alpha.Totals.Catches, ShouldEqual, 8)
				So(alpha.MeanScore, ShouldAlmostEqual, 85.0)
				So(alpha.CodePoints, ShouldAlmostEqual, 14.0)
				So(alpha.CodeCounts["ER"], ShouldEqual, 3)
				So(alpha.CodeCounts["MA"], ShouldEqual, 1)
			})

			Convey("And output is ordered by player then week", func() {
				So(groups[1].Player, ShouldEqual, "Beta")
				So(groups[1].Week, ShouldEqual, 3)
			})
		})
	})
}
