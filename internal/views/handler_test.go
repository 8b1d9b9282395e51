package views

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/models"
)

// The clause builders and validation only read their arguments, so the
// handler under test carries no store.
func testHandler() *Handler {
	return &Handler{
		viewTypes:  NewDefaultTypeRegistry(),
		filters:    filter.NewDefaultRegistry(),
		fieldTypes: fields.NewDefaultRegistry(),
		logger:     zap.NewNop(),
	}
}

var (
	testTable = models.Table{ID: 1, Name: "Customers"}

	nameField   = models.Field{ID: 1, TableID: 1, Name: "Name", Type: models.FieldTypeText, Primary: true}
	ageField    = models.Field{ID: 2, TableID: 1, Name: "Age", Type: models.FieldTypeNumber, Config: models.FieldConfig{NumberType: models.NumberTypeInteger}}
	activeField = models.Field{ID: 3, TableID: 1, Name: "Active", Type: models.FieldTypeBoolean}
	docsField   = models.Field{ID: 4, TableID: 1, Name: "Documents", Type: models.FieldTypeFile}

	testFields = []models.Field{nameField, ageField, activeField, docsField}
)

func gridView(mode models.FilterMode) models.View {
	return models.View{ID: 10, TableID: 1, Name: "Grid", Type: models.ViewTypeGrid, FilterMode: mode}
}

func TestApplyFilters_CombinesWithAnd(t *testing.T) {
	h := testHandler()
	viewFilters := []models.ViewFilter{
		{ID: 1, ViewID: 10, FieldID: 1, Type: filter.TypeEqual, Value: "Alice"},
		{ID: 2, ViewID: 10, FieldID: 2, Type: filter.TypeHigherThan, Value: "18"},
	}
	fragment, err := h.ApplyFilters(testTable, gridView(models.FilterModeAND), viewFilters, testFields)
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	sql, args := fragment.Render(1)
	if sql != "(field_1 = $1 AND field_2 > $2)" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 2 || args[0] != "Alice" || args[1] != int64(18) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestApplyFilters_CombinesWithOr(t *testing.T) {
	h := testHandler()
	viewFilters := []models.ViewFilter{
		{ID: 1, ViewID: 10, FieldID: 1, Type: filter.TypeEqual, Value: "Alice"},
		{ID: 2, ViewID: 10, FieldID: 1, Type: filter.TypeEqual, Value: "Bob"},
	}
	fragment, err := h.ApplyFilters(testTable, gridView(models.FilterModeOR), viewFilters, testFields)
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	sql, _ := fragment.Render(1)
	if sql != "(field_1 = $1 OR field_1 = $2)" {
		t.Errorf("unexpected sql %q", sql)
	}
}

func TestApplyFilters_DisabledViewMatchesEverything(t *testing.T) {
	h := testHandler()
	view := gridView(models.FilterModeAND)
	view.FiltersDisabled = true
	viewFilters := []models.ViewFilter{
		{ID: 1, ViewID: 10, FieldID: 1, Type: filter.TypeEqual, Value: "Alice"},
	}
	fragment, err := h.ApplyFilters(testTable, view, viewFilters, testFields)
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if !fragment.IsDisabled() {
		t.Error("expected the disabled fragment when view filters are off")
	}
	if sql, _ := fragment.Render(1); sql != "TRUE" {
		t.Errorf("unexpected sql %q", sql)
	}
}

func TestApplyFilters_EmptyValueFilterDropsOut(t *testing.T) {
	h := testHandler()
	viewFilters := []models.ViewFilter{
		{ID: 1, ViewID: 10, FieldID: 1, Type: filter.TypeEqual, Value: "   "},
		{ID: 2, ViewID: 10, FieldID: 1, Type: filter.TypeContains, Value: "Jo"},
	}
	fragment, err := h.ApplyFilters(testTable, gridView(models.FilterModeAND), viewFilters, testFields)
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	sql, args := fragment.Render(1)
	if sql != "field_1 ILIKE $1" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 1 || args[0] != "%Jo%" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestApplyFilters_FieldFromAnotherTableRejected(t *testing.T) {
	h := testHandler()
	viewFilters := []models.ViewFilter{
		{ID: 1, ViewID: 10, FieldID: 99, Type: filter.TypeEqual, Value: "x"},
	}
	_, err := h.ApplyFilters(testTable, gridView(models.FilterModeAND), viewFilters, testFields)
	if !errors.Is(err, ErrFieldNotInTable) {
		t.Errorf("expected ErrFieldNotInTable, got %v", err)
	}
}

func TestApplyFilters_UnknownFilterTypeRejected(t *testing.T) {
	h := testHandler()
	viewFilters := []models.ViewFilter{
		{ID: 1, ViewID: 10, FieldID: 1, Type: "sounds_like", Value: "x"},
	}
	_, err := h.ApplyFilters(testTable, gridView(models.FilterModeAND), viewFilters, testFields)
	if !errors.Is(err, filter.ErrFilterTypeNotFound) {
		t.Errorf("expected ErrFilterTypeNotFound, got %v", err)
	}
}

func TestApplySorting_AlwaysEndsWithRowOrder(t *testing.T) {
	h := testHandler()
	orderBy, err := h.ApplySorting(testTable, gridView(models.FilterModeAND), nil, testFields)
	if err != nil {
		t.Fatalf("ApplySorting: %v", err)
	}
	if orderBy != `"order", id` {
		t.Errorf("unexpected order by %q", orderBy)
	}
}

func TestApplySorting_AscendingPutsEmptyValuesFirst(t *testing.T) {
	h := testHandler()
	viewSorts := []models.ViewSort{
		{ID: 1, ViewID: 10, FieldID: 1, Order: models.SortOrderAsc},
	}
	orderBy, err := h.ApplySorting(testTable, gridView(models.FilterModeAND), viewSorts, testFields)
	if err != nil {
		t.Fatalf("ApplySorting: %v", err)
	}
	if orderBy != `field_1 ASC NULLS FIRST, "order", id` {
		t.Errorf("unexpected order by %q", orderBy)
	}
}

func TestApplySorting_DescendingPutsEmptyValuesLast(t *testing.T) {
	h := testHandler()
	viewSorts := []models.ViewSort{
		{ID: 1, ViewID: 10, FieldID: 2, Order: models.SortOrderDesc},
		{ID: 2, ViewID: 10, FieldID: 1, Order: models.SortOrderAsc},
	}
	orderBy, err := h.ApplySorting(testTable, gridView(models.FilterModeAND), viewSorts, testFields)
	if err != nil {
		t.Fatalf("ApplySorting: %v", err)
	}
	want := `field_2 DESC NULLS LAST, field_1 ASC NULLS FIRST, "order", id`
	if orderBy != want {
		t.Errorf("unexpected order by %q", orderBy)
	}
}

func TestApplySorting_SingleSelectOrdersByOptionValue(t *testing.T) {
	h := testHandler()
	table := models.Table{ID: 4}
	selectField := models.Field{ID: 7, TableID: 4, Type: models.FieldTypeSingleSelect}
	view := models.View{ID: 11, TableID: 4, Type: models.ViewTypeGrid}
	viewSorts := []models.ViewSort{
		{ID: 1, ViewID: 11, FieldID: 7, Order: models.SortOrderAsc},
	}
	orderBy, err := h.ApplySorting(table, view, viewSorts, []models.Field{selectField})
	if err != nil {
		t.Fatalf("ApplySorting: %v", err)
	}
	if !strings.HasPrefix(orderBy, "(SELECT so.value FROM database_select_option so WHERE so.id = database_table_4.field_7) ASC NULLS FIRST") {
		t.Errorf("unexpected order by %q", orderBy)
	}
}

func TestApplySorting_UnsortableFieldRejected(t *testing.T) {
	h := testHandler()
	viewSorts := []models.ViewSort{
		{ID: 1, ViewID: 10, FieldID: 4, Order: models.SortOrderAsc},
	}
	_, err := h.ApplySorting(testTable, gridView(models.FilterModeAND), viewSorts, testFields)
	if !errors.Is(err, ErrSortFieldNotSupported) {
		t.Errorf("expected ErrSortFieldNotSupported, got %v", err)
	}
}

func TestCheckFilter_IncompatibleFilterType(t *testing.T) {
	h := testHandler()
	err := h.checkFilter(gridView(models.FilterModeAND), activeField, filter.TypeContains)
	if !errors.Is(err, ErrFilterNotSupportedForField) {
		t.Errorf("expected ErrFilterNotSupportedForField, got %v", err)
	}
}

func TestCheckFilter_FieldFromAnotherTable(t *testing.T) {
	h := testHandler()
	foreign := models.Field{ID: 50, TableID: 2, Type: models.FieldTypeText}
	err := h.checkFilter(gridView(models.FilterModeAND), foreign, filter.TypeEqual)
	if !errors.Is(err, ErrFieldNotInTable) {
		t.Errorf("expected ErrFieldNotInTable, got %v", err)
	}
}

func TestCheckFilter_UnknownViewType(t *testing.T) {
	h := testHandler()
	view := models.View{ID: 12, TableID: 1, Type: "kanban"}
	err := h.checkFilter(view, nameField, filter.TypeEqual)
	if !errors.Is(err, ErrViewTypeNotFound) {
		t.Errorf("expected ErrViewTypeNotFound, got %v", err)
	}
}

func TestCheckSort_UnsortableField(t *testing.T) {
	h := testHandler()
	err := h.checkSort(gridView(models.FilterModeAND), docsField)
	if !errors.Is(err, ErrSortFieldNotSupported) {
		t.Errorf("expected ErrSortFieldNotSupported, got %v", err)
	}
}

func TestFilterSupportsField_CoversNegatedTypes(t *testing.T) {
	h := testHandler()
	transformer, err := h.filters.Lookup(filter.TypeNotEqual)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !h.filterSupportsField(transformer, ageField) {
		t.Error("not_equal should apply to number fields")
	}
	if h.filterSupportsField(transformer, docsField) {
		t.Error("not_equal should not apply to file fields")
	}
}
