package model

// FeatureWidth is the fixed number of features per record.
const FeatureWidth = 6

// Number is a float feature that may be missing.
type Number struct {
	Float float64
	Valid bool
}

// Some returns a present Number.
func Some(v float64) Number { return Number{Float: v, Valid: true} }

// Missing is the zero Number.
var Missing = Number{}

// Or returns the value, or fallback when it is missing.
func (n Number) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float
}

// FeatureVector is the numeric view of one record.
type FeatureVector struct {
	AssignHour     Number // 0-23 or missing
	ActivationHour Number // 0-23 or missing
	Qty            Number
	Duration       Number
	ProviderCode   int
	SKUCode        int
}

// Values flattens the vector in a fixed order, replacing missing
// features with sentinel.
func (f FeatureVector) Values(sentinel float64) []float64 {
	return []float64{
		f.AssignHour.Or(sentinel),
		f.ActivationHour.Or(sentinel),
		f.Qty.Or(sentinel),
		f.Duration.Or(sentinel),
		float64(f.ProviderCode),
		float64(f.SKUCode),
	}
}

// Matrix flattens a batch of vectors into scorer input.
func Matrix(vectors []FeatureVector, sentinel float64) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = v.Values(sentinel)
	}
	return out
}
