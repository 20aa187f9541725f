package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/activscan/internal/domain/model"
	"github.com/okian/activscan/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromLabeled(t *testing.T) {
	Convey("Given a labeled dataset with a missing hour", t, func() {
		out := model.LabeledDataset{
			BatchID: "b-1",
			Rows: []model.LabeledRecord{{
				AssignmentID: "A-1", OrderID: "O-1",
				AssignHour: model.Missing, ActivationHour: model.Some(23), Qty: model.Some(9999),
				Provider: "XL", SKU: "SIM-4G", Label: "Anomaly", Score: 0.71,
			}},
			Report: model.Report{Records: 1, Anomalies: 1},
		}

		Convey("When converting and encoding", func() {
			b := types.FromLabeled(out)
			raw, err := json.Marshal(b)
			So(err, ShouldBeNil)

			Convey("Then missing values become null", func() {
				So(b.BatchID, ShouldEqual, "b-1")
				So(b.Rows[0].AssignHour, ShouldBeNil)
				So(*b.Rows[0].ActivationHour, ShouldEqual, 23)
				So(string(raw), ShouldContainSubstring, `"assign_hour":null`)
				So(string(raw), ShouldContainSubstring, `"anomaly_label":"Anomaly"`)
			})
		})
	})

	Convey("Given an empty dataset", t, func() {
		raw, err := json.Marshal(types.FromLabeled(model.LabeledDataset{BatchID: "b-0"}))

		Convey("Then rows encode as an empty list", func() {
			So(err, ShouldBeNil)
			So(string(raw), ShouldContainSubstring, `"rows":[]`)
		})
	})
}
