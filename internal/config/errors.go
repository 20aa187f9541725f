package config

import "errors"

// Sentinel kinds returned by Load and Validate.
var (
	// ErrInvalidConfig marks a value outside its accepted range.
	ErrInvalidConfig = errors.New("invalid scanner config")
	// ErrLoadConfig marks a file, env or decode failure.
	ErrLoadConfig = errors.New("load scanner config")
)
