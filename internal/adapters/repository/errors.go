package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound     = errors.New("batch not found")
	ErrInvalidBatch = errors.New("batch has no id")
)
