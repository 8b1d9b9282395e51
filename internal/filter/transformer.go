package filter

import (
	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/models"
)

// Filter operator names.
const (
	TypeEqual                = "equal"
	TypeNotEqual             = "not_equal"
	TypeContains             = "contains"
	TypeContainsNot          = "contains_not"
	TypeFilenameContains     = "filename_contains"
	TypeHigherThan           = "higher_than"
	TypeLowerThan            = "lower_than"
	TypeDateEqual            = "date_equal"
	TypeDateNotEqual         = "date_not_equal"
	TypeSingleSelectEqual    = "single_select_equal"
	TypeSingleSelectNotEqual = "single_select_not_equal"
	TypeBoolean              = "boolean"
	TypeEmpty                = "empty"
	TypeNotEmpty             = "not_empty"
)

// Column describes the target of one filter: the physical column, the
// physical table it belongs to, and the field definition with its
// resolved type. Immutable for the duration of an evaluation.
type Column struct {
	Name  string
	Table string
	Field models.Field
	Type  fields.Type
}

// NewColumn resolves a field into its filterable column
func NewColumn(table models.Table, field models.Field, fieldType fields.Type) Column {
	return Column{
		Name:  field.ColumnName(),
		Table: table.DatabaseTableName(),
		Field: field,
		Type:  fieldType,
	}
}

// Transformer converts one (column, raw value) pair into a predicate
// fragment. Implementations are stateless, never touch I/O and are
// safe for unbounded concurrent use. They strip the raw value first:
// an empty result disables the filter (match everything), and a value
// the column cannot accept degrades the same way instead of failing.
// The empty and not_empty transformers ignore the value entirely.
type Transformer interface {
	// Type returns the operator name the transformer registers under.
	Type() string

	// CompatibleFieldTypes returns the field type tags the
	// transformer may be applied to.
	CompatibleFieldTypes() []string

	// Apply builds the predicate fragment for value against col.
	Apply(col Column, value string) Fragment
}

func isCompatible(t Transformer, fieldType string) bool {
	for _, tag := range t.CompatibleFieldTypes() {
		if tag == fieldType {
			return true
		}
	}
	return false
}
