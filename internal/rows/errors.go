package rows

import "github.com/cockroachdb/errors"

var (
	ErrRowNotFound = errors.New("row not found")

	// Row write validation.
	ErrValueFieldNotFound = errors.New("value field not found")

	// order_by parameter validation.
	ErrOrderByFieldNotFound    = errors.New("order by field not found")
	ErrOrderByFieldNotPossible = errors.New("order by field has no ordering")

	// filter__ parameter validation.
	ErrFilterFieldNotFound = errors.New("filter field not found")
)
