package prep_test

import (
	"testing"

	"github.com/fieldvision/filmgrade/internal/domain/codes"
	"github.com/fieldvision/filmgrade/internal/domain/model"
	"github.com/fieldvision/filmgrade/internal/domain/prep"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	it := codes.NewInterpreter(codes.Extended())

	Convey("Given a record whose codes disagree with its discipline columns", t, func() {
		r := model.PlayerWeekRecord{
			Player: "WR One", Week: 4, Snaps: 40,
			MissedAssignments: 5, Loafs: 3,
			KeyPlays: 2,
			Codes:    "MA L L ER",
		}

		Convey("When normalized", func() {
			out := prep.Normalize(r, it.Interpret(r.Codes))

			Convey("Then code tallies override the raw columns", func() {
				So(out.MissedAssignments, ShouldEqual, 1)
				So(out.Loafs, ShouldEqual, 2)
			})

			Convey("And an explicit key_plays column is preserved", func() {
				So(out.KeyPlays, ShouldEqual, 2)
			})

			Convey("And the input record is untouched", func() {
				So(r.MissedAssignments, ShouldEqual, 5)
				So(r.Loafs, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a record with codes but no key_plays column", t, func() {
		r := model.PlayerWeekRecord{
			Player: "WR Two", Week: 4, Snaps: 40,
			Codes: "TD ER W C+12",
		}

		Convey("When normalized", func() {
			out := prep.Normalize(r, it.Interpret(r.Codes))

			Convey("Then key plays fall back to the positive-code count", func() {
				So(out.KeyPlays, ShouldEqual, 2) // TD and ER; W is negative, C+12 is yardage
			})
		})
	})

	Convey("Given a record with no codes string", t, func() {
		r := model.PlayerWeekRecord{
			Player: "WR Three", Week: 1, Snaps: 25,
			MissedAssignments: 2, Loafs: 1, KeyPlays: 0,
		}

		Convey("When normalized", func() {
			out := prep.Normalize(r, it.Interpret(r.Codes))

			Convey("Then the raw columns stand", func() {
				So(out, ShouldResemble, r)
			})
		})
	})

	Convey("Given a record with zero snaps", t, func() {
		Convey("When the raw columns carry discipline counts", func() {
			r := model.PlayerWeekRecord{Player: "DNP", Week: 2, MissedAssignments: 4, Loafs: 2}
			out := prep.Normalize(r, it.Interpret(r.Codes))

			Convey("Then discipline is forced to zero", func() {
				So(out.MissedAssignments, ShouldEqual, 0)
				So(out.Loafs, ShouldEqual, 0)
			})
		})

		Convey("When even the codes carry discipline", func() {
			r := model.PlayerWeekRecord{Player: "DNP", Week: 2, Codes: "MA L"}
			out := prep.Normalize(r, it.Interpret(r.Codes))

			Convey("Then zero snaps still wins", func() {
				So(out.MissedAssignments, ShouldEqual, 0)
				So(out.Loafs, ShouldEqual, 0)
			})
		})
	})
}
