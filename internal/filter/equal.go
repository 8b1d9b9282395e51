package filter

import (
	"strings"

	"github.com/zarybnicky/baserow/internal/models"
)

// equalFilter matches rows whose value equals the filter value
// exactly. The value must coerce into the column's storage type; a
// value the storage layer rejects degrades to matching everything
// instead of failing the request.
type equalFilter struct{}

func (equalFilter) Type() string {
	return TypeEqual
}

func (equalFilter) CompatibleFieldTypes() []string {
	return []string{
		models.FieldTypeText,
		models.FieldTypeLongText,
		models.FieldTypeURL,
		models.FieldTypeNumber,
		models.FieldTypeBoolean,
		models.FieldTypeEmail,
	}
}

func (equalFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	typed, err := col.Type.Coerce(col.Field, value)
	if err != nil {
		return Everything()
	}
	return NewFragment(col.Name+" = ?", typed)
}
