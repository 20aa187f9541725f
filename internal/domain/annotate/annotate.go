// Package annotate attaches verdicts back onto the records they were
// computed from.
package annotate

import (
	"errors"
	"fmt"

	"github.com/okian/activscan/internal/domain/model"
)

// ErrMisaligned is returned when records, features and verdicts differ in length.
var ErrMisaligned = errors.New("records and verdicts are misaligned")

// Annotate zips records with their features, verdicts and scores by
// position. The inputs are not modified.
func Annotate(records []model.Record, vectors []model.FeatureVector, verdicts []model.Verdict, scores []float64, labels model.Labels) ([]model.LabeledRecord, error) {
	n := len(records)
	if len(vectors) != n || len(verdicts) != n || len(scores) != n {
		return nil, fmt.Errorf("%w: %d records, %d vectors, %d verdicts, %d scores",
			ErrMisaligned, n, len(vectors), len(verdicts), len(scores))
	}
	out := make([]model.LabeledRecord, n)
	for i, r := range records {
		out[i] = model.LabeledRecord{
			AssignmentID:   r.AssignmentID,
			OrderID:        r.OrderID,
			AssignHour:     vectors[i].AssignHour,
			ActivationHour: vectors[i].ActivationHour,
			Qty:            vectors[i].Qty,
			Provider:       r.Provider,
			SKU:            r.SKU,
			Verdict:        verdicts[i],
			Label:          labels.For(verdicts[i]),
			Score:          scores[i],
		}
	}
	return out, nil
}
