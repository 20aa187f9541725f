package sampledata_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/okian/activscan/internal/domain/features"
	"github.com/okian/activscan/internal/sampledata"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	Convey("Given a generator config", t, func() {
		cfg := sampledata.Config{Rows: 60, Outliers: 6, Seed: 7}

		Convey("When generating a batch", func() {
			b, err := sampledata.Generate(cfg)
			So(err, ShouldBeNil)

			Convey("Then it has the requested size and a valid schema", func() {
				So(b.Dataset.Len(), ShouldEqual, 60)
				So(len(b.Outliers), ShouldEqual, 6)
				So(features.Validate(b.Dataset.Columns), ShouldBeNil)
			})

			Convey("And outliers carry the extreme quantity", func() {
				for _, i := range b.Outliers {
					So(b.Dataset.Records[i].Qty, ShouldEqual, "9999")
					So(b.Dataset.Records[i].Duration, ShouldEqual, "0")
				}
			})

			Convey("And normal records stay in the cluster", func() {
				outlier := map[int]bool{}
				for _, i := range b.Outliers {
					outlier[i] = true
				}
				for i, r := range b.Dataset.Records {
					if outlier[i] {
						continue
					}
					qty, err := strconv.Atoi(r.Qty)
					So(err, ShouldBeNil)
					So(qty, ShouldBeBetweenOrEqual, 1, 5)
					hour := features.ParseHour(r.AssignTime)
					So(hour.Valid, ShouldBeTrue)
					So(hour.Float, ShouldBeBetweenOrEqual, 8, 17)
				}
			})
		})

		Convey("When generating twice with the same seed", func() {
			a, _ := sampledata.Generate(cfg)
			b, _ := sampledata.Generate(cfg)

			Convey("Then the batches are identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When generating with another seed", func() {
			a, _ := sampledata.Generate(cfg)
			cfg.Seed = 8
			b, _ := sampledata.Generate(cfg)

			Convey("Then the identifiers differ", func() {
				So(a.Dataset.Records[0].AssignmentID, ShouldNotEqual, b.Dataset.Records[0].AssignmentID)
			})
		})

		Convey("When more outliers than rows are requested", func() {
			_, err := sampledata.Generate(sampledata.Config{Rows: 2, Outliers: 3})

			Convey("Then generation fails", func() {
				So(errors.Is(err, sampledata.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When no rows are requested", func() {
			b, err := sampledata.Generate(sampledata.Config{})

			Convey("Then the batch is empty", func() {
				So(err, ShouldBeNil)
				So(b.Dataset.Len(), ShouldEqual, 0)
				So(b.Outliers, ShouldBeEmpty)
			})
		})
	})
}
