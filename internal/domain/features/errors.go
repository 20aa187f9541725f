package features

import (
	"errors"
	"strings"
)

// ErrSchema is the kind shared by all schema violations. Match it with
// errors.Is; use errors.As with *SchemaError for the column list.
var ErrSchema = errors.New("schema error")

// SchemaError reports required columns absent from a batch.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "schema error: missing required column(s): " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is(err, ErrSchema) match any SchemaError.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
