// Package features derives fixed-width numeric feature vectors from raw
// activation records.
package features

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/okian/activscan/internal/domain/model"
)

// Validate checks that columns contain every required column. All missing
// names are reported at once.
func Validate(columns []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[strings.TrimSpace(c)] = struct{}{}
	}
	var missing []string
	for _, req := range model.RequiredColumns {
		if _, ok := present[req]; !ok {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Extraction holds the per-record numeric features, minus the categorical
// codes which the encoder fills in.
type Extraction struct {
	Vectors []model.FeatureVector
	Report  model.ParseReport
}

// Extract validates the batch schema and parses hours and numeric fields.
// Unparseable cells become missing features and are counted in the
// report; they never fail the batch.
func Extract(ds model.Dataset) (Extraction, error) {
	if err := Validate(ds.Columns); err != nil {
		return Extraction{}, err
	}

	out := Extraction{
		Vectors: make([]model.FeatureVector, len(ds.Records)),
		Report:  model.ParseReport{AffectedRows: []int{}},
	}
	for i, r := range ds.Records {
		fv := model.FeatureVector{
			AssignHour:     ParseHour(r.AssignTime),
			ActivationHour: ParseHour(r.ActivationTime),
			Qty:            ParseNumber(r.Qty),
			Duration:       ParseNumber(r.Duration),
		}
		affected := false
		if !fv.AssignHour.Valid {
			out.Report.AssignTime++
			affected = true
		}
		if !fv.ActivationHour.Valid {
			out.Report.ActivationTime++
			affected = true
		}
		if !fv.Qty.Valid {
			out.Report.Qty++
			affected = true
		}
		if !fv.Duration.Valid {
			out.Report.Duration++
			affected = true
		}
		if affected {
			out.Report.AffectedRows = append(out.Report.AffectedRows, i)
		}
		out.Vectors[i] = fv
	}
	return out, nil
}

// Clock-only cells carry no date; dateparse would read "10:30" as
// month 10, day 30.
var clockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM", "3:04PM"}

// Day-first layouts dateparse cannot resolve on its own.
var dayFirstLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"02-01-2006",
}

// ParseHour returns the hour of day of a timestamp-like string, or
// missing when it cannot be parsed. Zone-less values are read as UTC.
// Ambiguous slash dates are month-first unless only day-first is valid.
func ParseHour(s string) model.Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Missing
	}
	upper := strings.ToUpper(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return model.Some(float64(t.Hour()))
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err == nil && t.Year() != 0 {
		return model.Some(float64(t.Hour()))
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return model.Some(float64(t.Hour()))
		}
	}
	return model.Missing
}

// ParseNumber parses a decimal numeric cell. Empty, non-numeric, hex and
// non-finite values are missing.
func ParseNumber(s string) model.Number {
	s = strings.TrimSpace(s)
	if s == "" || isHex(s) {
		return model.Missing
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.Missing
	}
	return model.Some(v)
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
