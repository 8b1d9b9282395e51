// Package views manages view configuration: which filters and sorts a
// view carries, whether they are valid for the underlying fields, and
// how they translate into query clauses.
package views

import (
	"github.com/cockroachdb/errors"

	"github.com/zarybnicky/baserow/internal/models"
)

// Type describes a kind of view and which query features it supports.
type Type struct {
	Tag       string
	CanFilter bool
	CanSort   bool
}

type TypeRegistry struct {
	types map[string]Type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]Type)}
}

// NewDefaultTypeRegistry returns a registry with the built-in view
// types. Only grid views exist for now.
func NewDefaultTypeRegistry() *TypeRegistry {
	r := NewTypeRegistry()
	r.Register(Type{Tag: models.ViewTypeGrid, CanFilter: true, CanSort: true})
	return r
}

func (r *TypeRegistry) Register(t Type) {
	r.types[t.Tag] = t
}

func (r *TypeRegistry) Get(tag string) (Type, error) {
	t, ok := r.types[tag]
	if !ok {
		return Type{}, errors.Wrapf(ErrViewTypeNotFound, "%q", tag)
	}
	return t, nil
}
