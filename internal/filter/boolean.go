package filter

import (
	"strings"

	"github.com/zarybnicky/baserow/internal/models"
)

var truthyTokens = map[string]bool{
	"y":    true,
	"t":    true,
	"o":    true,
	"yes":  true,
	"true": true,
	"on":   true,
	"1":    true,
}

// booleanFilter matches boolean rows against a fixed truthy token
// set. Every other value, the empty string included, filters for
// false; this is the one transformer that never degrades to a no-op.
type booleanFilter struct{}

func (booleanFilter) Type() string {
	return TypeBoolean
}

func (booleanFilter) CompatibleFieldTypes() []string {
	return []string{models.FieldTypeBoolean}
}

func (booleanFilter) Apply(col Column, value string) Fragment {
	value = strings.ToLower(strings.TrimSpace(value))
	return NewFragment(col.Name+" = ?", truthyTokens[value])
}
