package annotate_test

import (
	"errors"
	"testing"

	"github.com/okian/activscan/internal/domain/annotate"
	"github.com/okian/activscan/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAnnotate(t *testing.T) {
	convey.Convey("Given two records with verdicts", t, func() {
		records := []model.Record{
			{AssignmentID: "A-1", OrderID: "O-1", Qty: "2", Provider: "XL", SKU: "SIM-4G"},
			{AssignmentID: "A-2", OrderID: "O-2", Qty: "9999", Provider: "Indosat", SKU: "SIM-5G"},
		}
		vectors := []model.FeatureVector{
			{AssignHour: model.Some(8), ActivationHour: model.Some(9), Qty: model.Some(2)},
			{AssignHour: model.Missing, ActivationHour: model.Some(23), Qty: model.Some(9999)},
		}
		verdicts := []model.Verdict{model.Normal, model.Anomalous}
		scores := []float64{0.41, 0.77}
		snapshot := append([]model.Record(nil), records...)

		convey.Convey("When annotating", func() {
			rows, err := annotate.Annotate(records, vectors, verdicts, scores, model.DefaultLabels())

			convey.Convey("Then each record gets its own verdict and display fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(rows), convey.ShouldEqual, 2)
				convey.So(rows[0].AssignmentID, convey.ShouldEqual, "A-1")
				convey.So(rows[0].Label, convey.ShouldEqual, model.DefaultNormalLabel)
				convey.So(rows[1].OrderID, convey.ShouldEqual, "O-2")
				convey.So(rows[1].Verdict, convey.ShouldEqual, model.Anomalous)
				convey.So(rows[1].Label, convey.ShouldEqual, model.DefaultAnomalyLabel)
				convey.So(rows[1].AssignHour.Valid, convey.ShouldBeFalse)
				convey.So(rows[1].Qty, convey.ShouldResemble, model.Some(9999))
				convey.So(rows[1].Score, convey.ShouldEqual, 0.77)
			})

			convey.Convey("And the input records are unchanged", func() {
				convey.So(records, convey.ShouldResemble, snapshot)
			})
		})

		convey.Convey("When using custom labels", func() {
			rows, err := annotate.Annotate(records, vectors, verdicts, scores, model.Labels{Normal: "ok", Anomalous: "flag"})

			convey.Convey("Then the custom strings are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows[0].Label, convey.ShouldEqual, "ok")
				convey.So(rows[1].Label, convey.ShouldEqual, "flag")
			})
		})

		convey.Convey("When verdicts are missing", func() {
			_, err := annotate.Annotate(records, vectors, verdicts[:1], scores, model.DefaultLabels())

			convey.Convey("Then annotation fails", func() {
				convey.So(errors.Is(err, annotate.ErrMisaligned), convey.ShouldBeTrue)
			})
		})
	})
}
