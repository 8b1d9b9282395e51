package models

import "time"

// View type tags.
const (
	ViewTypeGrid = "grid"
)

// FilterMode is the boolean mode combining a view's filters
type FilterMode string

const (
	FilterModeAND FilterMode = "AND"
	FilterModeOR  FilterMode = "OR"
)

// SortOrder is the direction of one view sorting
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// View represents a saved presentation of a table
type View struct {
	ID              int64
	TableID         int64
	Name            string
	Type            string
	Order           int
	FilterMode      FilterMode
	FiltersDisabled bool
	CreatedOn       time.Time
	UpdatedOn       time.Time
}

// ViewFilter represents one stored filter of a view: a field, a filter
// operator name and the raw value the user typed
type ViewFilter struct {
	ID      int64
	ViewID  int64
	FieldID int64
	Type    string
	Value   string
}

// ViewSort represents one stored sorting of a view
type ViewSort struct {
	ID      int64
	ViewID  int64
	FieldID int64
	Order   SortOrder
}
