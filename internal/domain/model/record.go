// Package model contains domain models passed between layers.
package model

// Input column names as they appear in an uploaded activation table.
const (
	ColAssignmentID   = "Assignment ID"
	ColOrderID        = "Order ID"
	ColAssignTime     = "AssignTime"
	ColActivationTime = "Activation Time"
	ColQty            = "Qty"
	ColDuration       = "Duration"
	ColProvider       = "Provider"
	ColSKU            = "SKU"
)

// Output-only column names.
const (
	ColAssignHour     = "AssignHour"
	ColActivationHour = "ActivationHour"
	ColAnomalyLabel   = "Anomaly_Label"
)

// RequiredColumns lists every column a batch must carry to be scored.
var RequiredColumns = []string{
	ColAssignmentID,
	ColOrderID,
	ColAssignTime,
	ColActivationTime,
	ColQty,
	ColDuration,
	ColProvider,
	ColSKU,
}

// OutputColumns is the exact header of a labeled table.
var OutputColumns = []string{
	ColAssignmentID,
	ColOrderID,
	ColAssignHour,
	ColActivationHour,
	ColQty,
	ColProvider,
	ColSKU,
	ColAnomalyLabel,
}

// Record is one raw row of an activation table. Cells are kept as the
// strings read from the source; parsing is the extractor's job.
type Record struct {
	AssignmentID   string // display only
	OrderID        string // display only
	AssignTime     string
	ActivationTime string
	Qty            string
	Duration       string
	Provider       string
	SKU            string
}

// Dataset is an ordered batch of records scored together.
type Dataset struct {
	// Columns is the header of the source table. Schema validation runs
	// against it, so a Dataset built in code must list its columns too.
	Columns []string
	Records []Record
}

// NewDataset returns a Dataset carrying the full required schema.
func NewDataset(records []Record) Dataset {
	return Dataset{
		Columns: append([]string(nil), RequiredColumns...),
		Records: records,
	}
}

// Len returns the number of records in the batch.
func (d Dataset) Len() int { return len(d.Records) }
