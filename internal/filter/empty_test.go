package filter

import (
	"testing"

	"github.com/zarybnicky/baserow/internal/models"
)

func TestEmpty_TextIncludesEmptyString(t *testing.T) {
	col := testColumn(t, textField(3))

	sql, _ := emptyFilter{}.Apply(col, "").Render(1)
	if sql != "(field_3 IS NULL OR field_3 = '')" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestEmpty_NumberIsNullOnly(t *testing.T) {
	col := testColumn(t, integerField(2))

	sql, _ := emptyFilter{}.Apply(col, "").Render(1)
	if sql != "field_2 IS NULL" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestEmpty_BooleanMeansFalse(t *testing.T) {
	col := testColumn(t, booleanField(8))

	sql, _ := emptyFilter{}.Apply(col, "").Render(1)
	if sql != "field_8 = false" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestEmpty_SingleSelectMeansNullReference(t *testing.T) {
	field := models.Field{ID: 7, TableID: 1, Name: "status", Type: models.FieldTypeSingleSelect}
	col := testColumn(t, field)

	sql, _ := emptyFilter{}.Apply(col, "").Render(1)
	if sql != "field_7 IS NULL" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestEmpty_FileListIncludesEmptyContainers(t *testing.T) {
	field := models.Field{ID: 9, TableID: 1, Name: "attachments", Type: models.FieldTypeFile}
	col := testColumn(t, field)

	sql, _ := emptyFilter{}.Apply(col, "").Render(1)
	want := "(field_9 IS NULL OR field_9 = 'null'::jsonb" +
		" OR field_9 = '[]'::jsonb OR field_9 = '{}'::jsonb)"
	if sql != want {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestEmpty_LinkRowMeansNoRelation(t *testing.T) {
	field := models.Field{
		ID: 11, TableID: 1, Name: "customer", Type: models.FieldTypeLinkRow,
		Config: models.FieldConfig{LinkRowTableID: 2},
	}
	col := testColumn(t, field)

	sql, _ := emptyFilter{}.Apply(col, "").Render(1)
	want := "NOT EXISTS(SELECT 1 FROM database_relation_11 rel" +
		" WHERE rel.row_id = database_table_1.id)"
	if sql != want {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestNotEmpty_InvertsEmptiness(t *testing.T) {
	col := testColumn(t, textField(3))
	notEmpty := Not(TypeNotEmpty, emptyFilter{})

	sql, _ := notEmpty.Apply(col, "").Render(1)
	if sql != "NOT ((field_3 IS NULL OR field_3 = ''))" {
		t.Errorf("unexpected sql: %s", sql)
	}
}

func TestSingleSelectEqual_MatchesOptionID(t *testing.T) {
	field := models.Field{ID: 7, TableID: 1, Name: "status", Type: models.FieldTypeSingleSelect}
	col := testColumn(t, field)

	sql, args := singleSelectEqualFilter{}.Apply(col, "42").Render(1)
	if sql != "field_7 = $1" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if args[0] != int64(42) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestSingleSelectEqual_NonIntegerMatchesEverything(t *testing.T) {
	field := models.Field{ID: 7, TableID: 1, Name: "status", Type: models.FieldTypeSingleSelect}
	col := testColumn(t, field)

	if !(singleSelectEqualFilter{}).Apply(col, "archived").IsEverything() {
		t.Error("non-integer option id should filter nothing out")
	}
}
