package filter

import (
	"testing"
	"time"

	"github.com/zarybnicky/baserow/internal/models"
)

func TestDateEqual_DateOnlyValueMatchesWholeDay(t *testing.T) {
	col := testColumn(t, dateTimeField(6))

	sql, args := dateEqualFilter{}.Apply(col, "2020-04-10").Render(1)
	if sql != "(field_6 AT TIME ZONE 'UTC')::date = $1::date" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if len(args) != 1 || args[0] != "2020-04-10" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestDateEqual_TimedValueMatchesExactInstant(t *testing.T) {
	col := testColumn(t, dateTimeField(6))

	sql, args := dateEqualFilter{}.Apply(col, "2020-04-10 12:30:30").Render(1)
	if sql != "field_6 = $1" {
		t.Errorf("unexpected sql: %s", sql)
	}
	want := time.Date(2020, 4, 10, 12, 30, 30, 0, time.UTC)
	got, ok := args[0].(time.Time)
	if !ok || !got.Equal(want) {
		t.Errorf("naive time should be read as UTC, got %#v", args[0])
	}
}

func TestDateEqual_ZonedValueConvertsToUTC(t *testing.T) {
	col := testColumn(t, dateTimeField(6))

	_, args := dateEqualFilter{}.Apply(col, "2020-04-10T14:30:30+02:00").Render(1)
	want := time.Date(2020, 4, 10, 12, 30, 30, 0, time.UTC)
	got, ok := args[0].(time.Time)
	if !ok || !got.Equal(want) {
		t.Errorf("expected 12:30:30 UTC, got %#v", args[0])
	}
	if got.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", got.Location())
	}
}

func TestDateEqual_DateColumnComparesOnDay(t *testing.T) {
	field := models.Field{ID: 6, TableID: 1, Name: "due", Type: models.FieldTypeDate}
	col := testColumn(t, field)

	sql, args := dateEqualFilter{}.Apply(col, "2020-04-10 12:30:30").Render(1)
	if sql != "field_6 = $1::date" {
		t.Errorf("unexpected sql: %s", sql)
	}
	if args[0] != "2020-04-10" {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestDateEqual_MalformedValueMatchesEverything(t *testing.T) {
	col := testColumn(t, dateTimeField(6))

	if !(dateEqualFilter{}).Apply(col, "not-a-date").IsEverything() {
		t.Error("malformed date should filter nothing out")
	}
}

func TestDateEqual_EmptyValueDisablesFilter(t *testing.T) {
	col := testColumn(t, dateTimeField(6))

	if !(dateEqualFilter{}).Apply(col, "  ").IsDisabled() {
		t.Error("blank value should disable the filter")
	}
}

func TestDateNotEqual_MalformedValueMatchesNothing(t *testing.T) {
	col := testColumn(t, dateTimeField(6))
	dateNotEqual := Not(TypeDateNotEqual, dateEqualFilter{})

	if !dateNotEqual.Apply(col, "not-a-date").IsNothing() {
		t.Error("negated unusable value should match no row")
	}
}

func TestDateNotEqual_ComplementsDateEqual(t *testing.T) {
	col := testColumn(t, dateTimeField(6))
	dateNotEqual := Not(TypeDateNotEqual, dateEqualFilter{})

	sql, _ := dateNotEqual.Apply(col, "2020-04-10").Render(1)
	if sql != "NOT ((field_6 AT TIME ZONE 'UTC')::date = $1::date)" {
		t.Errorf("unexpected sql: %s", sql)
	}
}
