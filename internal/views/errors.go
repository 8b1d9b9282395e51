package views

import "github.com/cockroachdb/errors"

var (
	ErrViewTypeNotFound = errors.New("view type not found")

	// Filter validation.
	ErrViewFilterNotSupported     = errors.New("view does not support filters")
	ErrFilterNotSupportedForField = errors.New("filter not supported for field type")
	ErrFieldNotInTable            = errors.New("field does not belong to the view's table")

	// Sort validation.
	ErrViewSortNotSupported  = errors.New("view does not support sorting")
	ErrSortFieldNotSupported = errors.New("field type cannot be sorted on")
	ErrSortFieldExists       = errors.New("a sort for this field already exists")
)
