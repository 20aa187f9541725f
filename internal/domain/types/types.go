// Package types contains the JSON shapes shared by the HTTP API and the CLI.
package types

import "github.com/okian/activscan/internal/domain/model"

// Row is one labeled record as rendered in JSON. Missing hours and
// quantities are null.
type Row struct {
	AssignmentID   string   `json:"assignment_id"`
	OrderID        string   `json:"order_id"`
	AssignHour     *float64 `json:"assign_hour"`
	ActivationHour *float64 `json:"activation_hour"`
	Qty            *float64 `json:"qty"`
	Provider       string   `json:"provider"`
	SKU            string   `json:"sku"`
	Label          string   `json:"anomaly_label"`
	Score          float64  `json:"score"`
}

// Batch is the JSON body returned for a scored upload.
type Batch struct {
	BatchID string       `json:"batch_id"`
	Rows    []Row        `json:"rows"`
	Report  model.Report `json:"report"`
}

// FromLabeled converts a labeled dataset. Rows is never nil so an empty
// batch encodes as [].
func FromLabeled(out model.LabeledDataset) Batch {
	rows := make([]Row, len(out.Rows))
	for i, r := range out.Rows {
		rows[i] = Row{
			AssignmentID:   r.AssignmentID,
			OrderID:        r.OrderID,
			AssignHour:     ptr(r.AssignHour),
			ActivationHour: ptr(r.ActivationHour),
			Qty:            ptr(r.Qty),
			Provider:       r.Provider,
			SKU:            r.SKU,
			Label:          r.Label,
			Score:          r.Score,
		}
	}
	return Batch{BatchID: out.BatchID, Rows: rows, Report: out.Report}
}

func ptr(n model.Number) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float
	return &v
}
