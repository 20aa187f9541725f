package tabular

import "errors"

// Sentinel kinds for CSV decoding and encoding.
var (
	ErrMalformed = errors.New("malformed csv")
	ErrWrite     = errors.New("write csv failed")
)
