package csvio_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fieldvision/filmgrade/internal/adapters/csvio"
	. "github.com/smartystreets/goconvey/convey"
)

const header = "player,week,snaps,targets,catches,rec_yards,rush_yards,touchdowns,drops,missed_assignments,loafs,key_plays,codes"

func TestRead(t *testing.T) {
	Convey("Given a well-formed film sheet", t, func() {
		sheet := header + "\n" +
			`Alpha,1,30,10,8,80,0,1,2,0,0,3,"(ER) (C+12)"` + "\n" +
			"Beta,1,22,4,3,35,12,0,1,1,0,1,\n"

		Convey("When read", func() {
			records, skipped, err := csvio.Read(strings.NewReader(sheet))

			Convey("Then all rows parse with no exclusions", func() {
				So(err, ShouldBeNil)
				So(skipped, ShouldBeEmpty)
				So(len(records), ShouldEqual, 2)

				So(records[0].Player, ShouldEqual, "Alpha")
				So(records[0].Week, ShouldEqual, 1)
				So(records[0].Snaps, ShouldEqual, 30)
				So(records[0].RecYards, ShouldEqual, 80)
				So(records[0].Codes, ShouldEqual, "(ER) (C+12)")

				So(records[1].RushYards, ShouldEqual, 12)
				So(records[1].Codes, ShouldEqual, "")
			})
		})
	})

	Convey("Given a sheet with messy header spellings", t, func() {
		sheet := "Player,WEEK,Snaps,Targets,Catches,Rec Yards,Rush Yards,Touchdowns,Drops,MISSED ASSIGNMENTS,Loafs\n" +
			"Gamma,2,28,6,5,61,0,0,1,1,0\n"

		Convey("When read", func() {
			records, skipped, err := csvio.Read(strings.NewReader(sheet))

			Convey("Then normalization still binds every required column", func() {
				So(err, ShouldBeNil)
				So(skipped, ShouldBeEmpty)
				So(len(records), ShouldEqual, 1)
				So(records[0].RecYards, ShouldEqual, 61)
				So(records[0].MissedAssignments, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a sheet with split key-play columns", t, func() {
		sheet := header + `,key play ++,key play --` + "\n" +
			`Delta,3,30,5,4,50,0,0,1,0,0,0,,"(ER) (FD)","(L)"` + "\n"

		Convey("When read", func() {
			records, _, err := csvio.Read(strings.NewReader(sheet))

			Convey("Then both columns fold into the codes string", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records[0].Codes, ShouldEqual, "(ER) (FD) (L)")
			})
		})
	})

	Convey("Given a sheet missing required columns", t, func() {
		sheet := "player,week,snaps\nAlpha,1,30\n"

		Convey("When read", func() {
			_, _, err := csvio.Read(strings.NewReader(sheet))

			Convey("Then it fails fast naming the missing columns", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, csvio.ErrMissingColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "targets")
				So(err.Error(), ShouldContainSubstring, "rec_yards")
			})
		})
	})

	Convey("Given a sheet with one bad row among good ones", t, func() {
		sheet := header + "\n" +
			"Alpha,1,30,10,8,80,0,1,2,0,0,3,\n" +
			"Beta,1,thirty,4,3,35,12,0,1,1,0,1,\n" +
			"Gamma,1,20,3,2,15,0,0,-1,0,0,0,\n"

		Convey("When read", func() {
			records, skipped, err := csvio.Read(strings.NewReader(sheet))

			Convey("Then only the good rows survive and each exclusion is identified", func() {
				So(err, ShouldBeNil)
				So(len(records), ShouldEqual, 1)
				So(records[0].Player, ShouldEqual, "Alpha")

				So(len(skipped), ShouldEqual, 2)
				So(skipped[0].Line, ShouldEqual, 3)
				So(skipped[0].Field, ShouldEqual, "snaps")
				So(errors.Is(skipped[0].Err, csvio.ErrNotNumeric), ShouldBeTrue)
				So(skipped[1].Line, ShouldEqual, 4)
				So(skipped[1].Err.Error(), ShouldContainSubstring, "drops")
			})
		})
	})

	Convey("Given a sheet with empty numeric cells", t, func() {
		sheet := header + "\n" +
			"Alpha,1,30,,,,,,,,,,\n"

		Convey("When read", func() {
			records, skipped, err := csvio.Read(strings.NewReader(sheet))

			Convey("Then empty cells read as zero", func() {
				So(err, ShouldBeNil)
				So(skipped, ShouldBeEmpty)
				So(records[0].Targets, ShouldEqual, 0)
				So(records[0].KeyPlays, ShouldEqual, 0)
			})
		})
	})

	Convey("Given an input with only a header", t, func() {
		_, _, err := csvio.Read(strings.NewReader(header + "\n"))

		Convey("Then it is rejected as empty", func() {
			So(errors.Is(err, csvio.ErrEmptyInput), ShouldBeTrue)
		})
	})
}
