package filter

import "errors"

// Compilation errors. Each names the offending parameter when wrapped.
var (
	ErrInvalidOperator = errors.New("unrecognized filter operator")
	ErrEmptyValue      = errors.New("filter operator requires a value")
	ErrInvalidRegex    = errors.New("invalid regex filter pattern")
)
