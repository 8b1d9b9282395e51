package filter

import (
	"testing"

	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/models"
)

// testColumn resolves a field against the default field type registry
// the way the view layer does before applying a filter.
func testColumn(t *testing.T, field models.Field) Column {
	t.Helper()
	ft, err := fields.NewDefaultRegistry().Get(field.Type)
	if err != nil {
		t.Fatalf("resolving field type %q: %v", field.Type, err)
	}
	return NewColumn(models.Table{ID: 1}, field, ft)
}

func textField(id int64) models.Field {
	return models.Field{ID: id, TableID: 1, Name: "name", Type: models.FieldTypeText}
}

func integerField(id int64) models.Field {
	return models.Field{
		ID: id, TableID: 1, Name: "price", Type: models.FieldTypeNumber,
		Config: models.FieldConfig{NumberType: models.NumberTypeInteger},
	}
}

func decimalField(id int64) models.Field {
	return models.Field{
		ID: id, TableID: 1, Name: "ratio", Type: models.FieldTypeNumber,
		Config: models.FieldConfig{
			NumberType:          models.NumberTypeDecimal,
			NumberDecimalPlaces: 2,
		},
	}
}

func booleanField(id int64) models.Field {
	return models.Field{ID: id, TableID: 1, Name: "active", Type: models.FieldTypeBoolean}
}

func dateTimeField(id int64) models.Field {
	return models.Field{
		ID: id, TableID: 1, Name: "deadline", Type: models.FieldTypeDate,
		Config: models.FieldConfig{DateIncludeTime: true},
	}
}
