package codes_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldvision/filmgrade/internal/domain/codes"
	"github.com/smartystreets/goconvey/convey"
)

func TestByName(t *testing.T) {
	convey.Convey("Given the built-in rubrics", t, func() {
		convey.Convey("When resolving by name", func() {
			std, errStd := codes.ByName("standard")
			ext, errExt := codes.ByName("Extended")

			convey.Convey("Then both resolve case-insensitively", func() {
				convey.So(errStd, convey.ShouldBeNil)
				convey.So(errExt, convey.ShouldBeNil)
				convey.So(std.Version, convey.ShouldEqual, codes.RubricStandard)
				convey.So(ext.Version, convey.ShouldEqual, codes.RubricExtended)
			})

			convey.Convey("And the rubrics carry the same code set with different values", func() {
				convey.So(len(std.Rules), convey.ShouldEqual, len(ext.Rules))
				for code := range std.Rules {
					_, ok := ext.Rules[code]
					convey.So(ok, convey.ShouldBeTrue)
				}
				convey.So(std.Rules["TD"].Points, convey.ShouldEqual, 10)
				convey.So(ext.Rules["TD"].Points, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When resolving the empty name", func() {
			l, err := codes.ByName("")

			convey.Convey("Then the standard rubric is the default", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(l.Version, convey.ShouldEqual, codes.RubricStandard)
			})
		})

		convey.Convey("When resolving an unknown name", func() {
			_, err := codes.ByName("2019-preseason")

			convey.Convey("Then it fails with the sentinel error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, codes.ErrUnknownRubric), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoadLegend(t *testing.T) {
	convey.Convey("Given a legend YAML file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "legend.yaml")
		doc := `version: team-2026
rules:
  td:
    points: 12
  er:
    points: 6
  c:
    points: 0.75
    per_unit: true
key_play_codes: [TD, ER]
`
		convey.So(os.WriteFile(path, []byte(doc), 0o644), convey.ShouldBeNil)

		convey.Convey("When loading it", func() {
			l, err := codes.LoadLegend(path)

			convey.Convey("Then codes are canonicalized upper-case", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(l.Version, convey.ShouldEqual, "team-2026")
				convey.So(l.Rules["TD"].Points, convey.ShouldEqual, 12)
				convey.So(l.Rules["C"].PerUnit, convey.ShouldBeTrue)
				convey.So(l.KeyPlayCodes, convey.ShouldResemble, []string{"TD", "ER"})
			})

			convey.Convey("And an interpreter over it resolves accordingly", func() {
				it := codes.NewInterpreter(l)
				convey.So(err, convey.ShouldBeNil)
				convey.So(it.Interpret("td c+4").Points, convey.ShouldAlmostEqual, 15.0)
			})
		})

		convey.Convey("When the file is missing", func() {
			_, err := codes.LoadLegend(filepath.Join(dir, "nope.yaml"))

			convey.Convey("Then loading fails with the sentinel error", func() {
				convey.So(errors.Is(err, codes.ErrLoadLegend), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file has no rules", func() {
			empty := filepath.Join(dir, "empty.yaml")
			convey.So(os.WriteFile(empty, []byte("version: hollow\n"), 0o644), convey.ShouldBeNil)
			_, err := codes.LoadLegend(empty)

			convey.Convey("Then it is rejected as invalid", func() {
				convey.So(errors.Is(err, codes.ErrInvalidLegend), convey.ShouldBeTrue)
			})
		})
	})
}
