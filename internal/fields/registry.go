package fields

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/zarybnicky/baserow/internal/models"
)

// ErrFieldTypeNotFound is returned when a field type tag has no
// registered type.
var ErrFieldTypeNotFound = errors.New("field type not found")

// StorageKind identifies the physical representation backing a field type
type StorageKind int

const (
	// KindText is a scalar string column (text or varchar).
	KindText StorageKind = iota
	// KindNumber is a scalar numeric column (bigint or numeric).
	KindNumber
	// KindBoolean is a scalar boolean column.
	KindBoolean
	// KindDate is a date or timestamptz column, per the field's
	// include_time setting.
	KindDate
	// KindJSONList is a jsonb column holding a list of objects.
	KindJSONList
	// KindForeignKey is an integer column referencing another row,
	// e.g. a select option id.
	KindForeignKey
	// KindRelation has no column of its own; values live in a
	// separate relation table keyed by row id.
	KindRelation
)

// Type describes one field type: its storage representation, how raw
// values coerce into it and how its column is created and ordered.
// Instances are immutable after registration.
type Type struct {
	// Tag is the field type name, e.g. "number".
	Tag string

	// Kind is the storage representation of the field's values.
	Kind StorageKind

	// CanOrderBy reports whether rows can be sorted on this type.
	CanOrderBy bool

	// AllowsEmptyString reports whether the column can store '' so
	// emptiness checks must include it.
	AllowsEmptyString bool

	// Coerce checks that the storage layer accepts the raw string for
	// this field and returns the typed value it would store. Used by
	// equality filters and by string row writes.
	Coerce func(field models.Field, value string) (interface{}, error)

	// Prepare validates and converts an arbitrary caller-supplied
	// value for a row write.
	Prepare func(field models.Field, value interface{}) (interface{}, error)

	// ColumnDDL returns the postgres column type for the field, empty
	// for types without a column of their own.
	ColumnDDL func(field models.Field) string

	// OrderExpr returns the SQL expression rows are sorted on. Types
	// that sort on the plain column leave it nil.
	OrderExpr func(field models.Field, table models.Table) string
}

// Registry maps field type tags to their Type. Populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	types map[string]Type
}

// NewRegistry creates an empty field type registry
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds a field type to the registry
func (r *Registry) Register(t Type) error {
	if t.Tag == "" {
		return errors.New("field type tag cannot be empty")
	}
	if _, ok := r.types[t.Tag]; ok {
		return errors.Newf("field type %q already registered", t.Tag)
	}
	r.types[t.Tag] = t
	return nil
}

// Get returns the field type registered under tag
func (r *Registry) Get(tag string) (Type, error) {
	t, ok := r.types[tag]
	if !ok {
		return Type{}, errors.Wrapf(ErrFieldTypeNotFound, "%q", tag)
	}
	return t, nil
}

// All returns every registered type sorted by tag
func (r *Registry) All() []Type {
	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
