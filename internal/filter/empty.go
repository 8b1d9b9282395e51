package filter

import (
	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/models"
)

// emptyFilter matches rows whose value is empty for the field's
// storage kind: a missing relation, a null option reference, false
// for booleans, a null or empty list or object for json lists, and
// null or the empty string elsewhere. The filter value plays no role.
type emptyFilter struct{}

func (emptyFilter) Type() string {
	return TypeEmpty
}

func (emptyFilter) CompatibleFieldTypes() []string {
	return []string{
		models.FieldTypeText,
		models.FieldTypeLongText,
		models.FieldTypeURL,
		models.FieldTypeNumber,
		models.FieldTypeBoolean,
		models.FieldTypeDate,
		models.FieldTypeEmail,
		models.FieldTypeFile,
		models.FieldTypeSingleSelect,
		models.FieldTypeLinkRow,
	}
}

func (emptyFilter) Apply(col Column, _ string) Fragment {
	switch col.Type.Kind {
	case fields.KindRelation:
		return NewFragment(
			"NOT EXISTS(SELECT 1 FROM " + col.Field.RelationTableName() +
				" rel WHERE rel.row_id = " + col.Table + ".id)",
		)
	case fields.KindForeignKey:
		return NewFragment(col.Name + " IS NULL")
	case fields.KindBoolean:
		return NewFragment(col.Name + " = false")
	case fields.KindJSONList:
		return NewFragment(
			"(" + col.Name + " IS NULL" +
				" OR " + col.Name + " = 'null'::jsonb" +
				" OR " + col.Name + " = '[]'::jsonb" +
				" OR " + col.Name + " = '{}'::jsonb)",
		)
	}
	if col.Type.AllowsEmptyString {
		return NewFragment("(" + col.Name + " IS NULL OR " + col.Name + " = '')")
	}
	return NewFragment(col.Name + " IS NULL")
}
