package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrInvalidConfig = errors.New("invalid scorer config")
	ErrRaggedMatrix  = errors.New("feature rows differ in width")
)
