package model

// Verdict is the outcome of scoring one record.
type Verdict int

// Verdict values.
const (
	Normal Verdict = iota
	Anomalous
)

// String implements fmt.Stringer.
func (v Verdict) String() string {
	switch v {
	case Normal:
		return "normal"
	case Anomalous:
		return "anomalous"
	default:
		return "unknown"
	}
}

// Default human-readable labels written to the Anomaly_Label column.
const (
	DefaultNormalLabel  = "Normal"
	DefaultAnomalyLabel = "Anomaly"
)

// Labels maps verdicts to the strings shown to users.
type Labels struct {
	Normal    string
	Anomalous string
}

// DefaultLabels returns the built-in label pair.
func DefaultLabels() Labels {
	return Labels{Normal: DefaultNormalLabel, Anomalous: DefaultAnomalyLabel}
}

// For returns the label for v.
func (l Labels) For(v Verdict) string {
	if v == Anomalous {
		return l.Anomalous
	}
	return l.Normal
}

// LabeledRecord is one row of the labeled output table.
type LabeledRecord struct {
	AssignmentID   string
	OrderID        string
	AssignHour     Number
	ActivationHour Number
	Qty            Number
	Provider       string
	SKU            string
	Verdict        Verdict
	Label          string
	Score          float64 // isolation score in (0, 1]; higher is more unusual
}

// ParseReport counts cells that could not be parsed and were scored as
// missing. It never causes a batch to fail.
type ParseReport struct {
	AssignTime     int   `json:"assign_time"`
	ActivationTime int   `json:"activation_time"`
	Qty            int   `json:"qty"`
	Duration       int   `json:"duration"`
	AffectedRows   []int `json:"affected_rows"` // zero-based record indexes
}

// Affected returns the number of rows with at least one missing feature.
func (p ParseReport) Affected() int { return len(p.AffectedRows) }

// Report summarizes one scoring run.
type Report struct {
	Records       int         `json:"records"`
	Anomalies     int         `json:"anomalies"`
	Contamination float64     `json:"contamination"`
	Trees         int         `json:"trees"`
	SampleSize    int         `json:"sample_size"`
	Seed          int64       `json:"seed"`
	Threshold     float64     `json:"threshold"`
	Parse         ParseReport `json:"parse"`
}

// LabeledDataset is the result of scoring a Dataset.
type LabeledDataset struct {
	BatchID string
	Rows    []LabeledRecord
	Report  Report
}

// Len returns the number of labeled rows.
func (l LabeledDataset) Len() int { return len(l.Rows) }
