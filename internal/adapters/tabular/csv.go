// Package tabular reads activation batches from CSV and writes labeled
// results back as CSV.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/activscan/internal/domain/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidate delimiters, in tie-break order.
var delimiters = []rune{',', ';', '\t'}

// Decode reads a CSV batch. The delimiter is sniffed from the header line
// and a leading UTF-8 BOM is dropped. Header names are trimmed but cells
// are kept as written; columns outside the record schema are ignored and
// absent ones are left for the detector to report. Input without a header
// line is malformed.
func Decode(r io.Reader) (model.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = SniffDelimiter(data)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Dataset{}, fmt.Errorf("%w: empty file, a header line is required", ErrMalformed)
	}
	if err != nil {
		return model.Dataset{}, malformed(err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
		if _, dup := index[columns[i]]; !dup {
			index[columns[i]] = i
		}
	}
	field := func(row []string, name string) string {
		if i, ok := index[name]; ok {
			return row[i]
		}
		return ""
	}

	ds := model.Dataset{Columns: columns}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, malformed(err)
		}
		ds.Records = append(ds.Records, model.Record{
			AssignmentID:   field(row, model.ColAssignmentID),
			OrderID:        field(row, model.ColOrderID),
			AssignTime:     field(row, model.ColAssignTime),
			ActivationTime: field(row, model.ColActivationTime),
			Qty:            field(row, model.ColQty),
			Duration:       field(row, model.ColDuration),
			Provider:       field(row, model.ColProvider),
			SKU:            field(row, model.ColSKU),
		})
	}
	return ds, nil
}

// SniffDelimiter picks the candidate occurring most often in the first line,
// defaulting to a comma.
func SniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func malformed(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%w: line %d: %w", ErrMalformed, pe.Line, pe.Err)
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

// Encode writes labeled rows with the fixed output header. Missing hours
// and quantities become empty cells.
func Encode(w io.Writer, rows []model.LabeledRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.OutputColumns); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range rows {
		rec := []string{
			r.AssignmentID,
			r.OrderID,
			FormatNumber(r.AssignHour),
			FormatNumber(r.ActivationHour),
			FormatNumber(r.Qty),
			r.Provider,
			r.SKU,
			r.Label,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// FormatNumber renders n in its shortest decimal form, or "" when missing.
func FormatNumber(n model.Number) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float, 'f', -1, 64)
}

// EncodeDataset writes raw records under the required input header, so the
// output can be fed back through Decode.
func EncodeDataset(w io.Writer, ds model.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.RequiredColumns); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	for _, r := range ds.Records {
		rec := []string{
			r.AssignmentID,
			r.OrderID,
			r.AssignTime,
			r.ActivationTime,
			r.Qty,
			r.Duration,
			r.Provider,
			r.SKU,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
