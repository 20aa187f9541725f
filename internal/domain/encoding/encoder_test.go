package encoding_test

import (
	"testing"

	"github.com/okian/activscan/internal/domain/encoding"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFit(t *testing.T) {
	Convey("Given provider values in arbitrary order", t, func() {
		values := []string{"Telkomsel", "Indosat", "XL", "Indosat", "Telkomsel"}

		Convey("When fitting a mapping", func() {
			codes, m := encoding.FitTransform(values)

			Convey("Then codes follow lexicographic order, not insertion order", func() {
				So(m.Values(), ShouldResemble, []string{"Indosat", "Telkomsel", "XL"})
				So(codes, ShouldResemble, []int{1, 0, 2, 0, 1})
				So(m.Len(), ShouldEqual, 3)
			})

			Convey("And equal strings share a code while different strings differ", func() {
				So(codes[0], ShouldEqual, codes[4])
				So(codes[1], ShouldEqual, codes[3])
				So(codes[0], ShouldNotEqual, codes[1])
				So(codes[2], ShouldNotEqual, codes[0])
			})
		})

		Convey("When fitting the same contents shuffled", func() {
			_, a := encoding.FitTransform(values)
			_, b := encoding.FitTransform([]string{"XL", "Telkomsel", "Indosat"})

			Convey("Then the mapping is identical", func() {
				So(a.Values(), ShouldResemble, b.Values())
			})
		})
	})

	Convey("Given values with empty cells", t, func() {
		codes, m := encoding.FitTransform([]string{"b", "", "a", "  "})

		Convey("Then only empty cells are encoded as the missing literal", func() {
			So(m.Values(), ShouldResemble, []string{"  ", "a", "b", encoding.MissingValue})
			So(codes, ShouldResemble, []int{2, 3, 1, 0})
		})
	})

	Convey("Given values differing only by padding", t, func() {
		codes, _ := encoding.FitTransform([]string{"XL", " XL", "XL"})

		Convey("Then they get distinct codes", func() {
			So(codes, ShouldResemble, []int{1, 0, 1})
		})
	})

	Convey("Given a fitted mapping", t, func() {
		m := encoding.Fit([]string{"x", "y"})

		Convey("When transforming an unseen value", func() {
			_, ok := m.Code("z")

			Convey("Then it is reported as unseen", func() {
				So(ok, ShouldBeFalse)
				So(m.Transform([]string{"y", "z"}), ShouldResemble, []int{1, -1})
			})
		})
	})

	Convey("Given no values", t, func() {
		codes, m := encoding.FitTransform(nil)

		Convey("Then the mapping is empty", func() {
			So(codes, ShouldBeEmpty)
			So(m.Len(), ShouldEqual, 0)
		})
	})
}
