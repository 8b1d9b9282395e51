package fields

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zarybnicky/baserow/internal/models"
)

func numberField(numberType string, negative bool) models.Field {
	return models.Field{
		ID: 1, Name: "amount", Type: models.FieldTypeNumber,
		Config: models.FieldConfig{NumberType: numberType, NumberNegative: negative},
	}
}

func TestCoerceNumber_Integer(t *testing.T) {
	f := numberField(models.NumberTypeInteger, true)

	v, err := coerceNumber(f, "25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(25) {
		t.Errorf("expected int64 25, got %#v", v)
	}

	if _, err := coerceNumber(f, "25.5"); err == nil {
		t.Error("integer column should reject a fractional value")
	}
	if _, err := coerceNumber(f, "abc"); err == nil {
		t.Error("integer column should reject a non-numeric value")
	}
}

func TestCoerceNumber_Decimal(t *testing.T) {
	f := numberField(models.NumberTypeDecimal, true)

	v, err := coerceNumber(f, "25.50")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := v.(decimal.Decimal)
	if !d.Equal(decimal.RequireFromString("25.5")) {
		t.Errorf("expected 25.5, got %s", d)
	}
}

func TestPrepareNumber_RejectsNegativeWhenNotAllowed(t *testing.T) {
	f := numberField(models.NumberTypeInteger, false)

	if _, err := prepareNumber(f, -5); err == nil {
		t.Error("expected negative value to be rejected")
	}
	if _, err := prepareNumber(f, "-5"); err == nil {
		t.Error("expected negative string value to be rejected")
	}

	v, err := prepareNumber(numberField(models.NumberTypeInteger, true), -5)
	if err != nil {
		t.Fatalf("negative allowed: %v", err)
	}
	if v != int64(-5) {
		t.Errorf("expected -5, got %#v", v)
	}
}

func TestPrepareNumber_TruncatesFloatTowardZero(t *testing.T) {
	f := numberField(models.NumberTypeInteger, true)

	v, err := prepareNumber(f, 25.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(25) {
		t.Errorf("expected truncation to 25, got %#v", v)
	}

	v, err = prepareNumber(f, -25.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(-25) {
		t.Errorf("expected truncation to -25, got %#v", v)
	}
}

func TestCoerceBoolean_StorageLiterals(t *testing.T) {
	f := models.Field{ID: 2, Name: "active", Type: models.FieldTypeBoolean}

	truthy := []string{"1", "t", "true", "True", "TRUE", "yes", "on"}
	for _, v := range truthy {
		got, err := coerceBoolean(f, v)
		if err != nil || got != true {
			t.Errorf("value %q: expected true, got %v (%v)", v, got, err)
		}
	}

	falsy := []string{"0", "f", "false", "False", "no", "off"}
	for _, v := range falsy {
		got, err := coerceBoolean(f, v)
		if err != nil || got != false {
			t.Errorf("value %q: expected false, got %v (%v)", v, got, err)
		}
	}

	if _, err := coerceBoolean(f, "maybe"); err == nil {
		t.Error("expected an error for an unknown literal")
	}
}

func TestParseDate_NaiveValueReadAsUTC(t *testing.T) {
	f := models.Field{
		ID: 3, Name: "deadline", Type: models.FieldTypeDate,
		Config: models.FieldConfig{DateIncludeTime: true},
	}

	got, err := parseDate(f, "2020-04-10 14:30:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2020, 4, 10, 14, 30, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseDate_FormatPreferenceResolvesAmbiguity(t *testing.T) {
	eu := models.Field{
		ID: 3, Name: "deadline", Type: models.FieldTypeDate,
		Config: models.FieldConfig{DateFormat: models.DateFormatEU},
	}
	us := models.Field{
		ID: 3, Name: "deadline", Type: models.FieldTypeDate,
		Config: models.FieldConfig{DateFormat: models.DateFormatUS},
	}

	gotEU, err := parseDate(eu, "02/03/2020")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotEU.Month() != time.March || gotEU.Day() != 2 {
		t.Errorf("EU format should read day first, got %v", gotEU)
	}

	gotUS, err := parseDate(us, "02/03/2020")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUS.Month() != time.February || gotUS.Day() != 3 {
		t.Errorf("US format should read month first, got %v", gotUS)
	}
}

func TestParseDate_DateOnlyFieldDropsTime(t *testing.T) {
	f := models.Field{ID: 3, Name: "due", Type: models.FieldTypeDate}

	got, err := parseDate(f, "2020-04-10 14:30:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2020, 4, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected midnight UTC, got %v", got)
	}
}

func TestPrepareFileList_ValidatesEntries(t *testing.T) {
	f := models.Field{ID: 4, Name: "attachments", Type: models.FieldTypeFile}

	v, err := prepareFileList(f, []interface{}{
		map[string]interface{}{"name": "x1.pdf", "visible_name": "Q1 Report.pdf"},
		map[string]interface{}{"name": "x2.pdf"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := v.([]models.FileValue)
	if len(files) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(files))
	}
	if files[0].VisibleName != "Q1 Report.pdf" {
		t.Errorf("unexpected visible name: %s", files[0].VisibleName)
	}
	if files[1].VisibleName != "x2.pdf" {
		t.Errorf("visible name should default to name, got %s", files[1].VisibleName)
	}

	_, err = prepareFileList(f, []interface{}{map[string]interface{}{"visible_name": "nameless"}})
	if err == nil {
		t.Error("expected an error for an entry without a name")
	}
}

func TestPrepareLinkRow_AcceptsRowIDLists(t *testing.T) {
	f := models.Field{ID: 5, Name: "customer", Type: models.FieldTypeLinkRow}

	v, err := prepareLinkRow(f, []interface{}{1, float64(2), int64(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := v.([]int64)
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("unexpected ids: %v", ids)
	}

	if _, err := prepareLinkRow(f, "1,2,3"); err == nil {
		t.Error("expected an error for a non-list value")
	}
}
