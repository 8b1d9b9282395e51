package rows

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
)

func TestOrderByClause_ParsesFieldTokens(t *testing.T) {
	registry := fields.NewDefaultRegistry()
	orderBy, err := OrderByClause(registry, queryTable, queryFields, "field_1,-field_2")
	if err != nil {
		t.Fatalf("OrderByClause: %v", err)
	}
	want := `field_1 ASC NULLS FIRST, field_2 DESC NULLS LAST, "order", id`
	if orderBy != want {
		t.Errorf("unexpected order by %q", orderBy)
	}
}

func TestOrderByClause_AcceptsBareFieldIDs(t *testing.T) {
	registry := fields.NewDefaultRegistry()
	orderBy, err := OrderByClause(registry, queryTable, queryFields, "-2")
	if err != nil {
		t.Fatalf("OrderByClause: %v", err)
	}
	if orderBy != `field_2 DESC NULLS LAST, "order", id` {
		t.Errorf("unexpected order by %q", orderBy)
	}
}

func TestOrderByClause_UnknownField(t *testing.T) {
	registry := fields.NewDefaultRegistry()
	_, err := OrderByClause(registry, queryTable, queryFields, "field_9")
	if !errors.Is(err, ErrOrderByFieldNotFound) {
		t.Errorf("expected ErrOrderByFieldNotFound, got %v", err)
	}
}

func TestOrderByClause_GarbageToken(t *testing.T) {
	registry := fields.NewDefaultRegistry()
	_, err := OrderByClause(registry, queryTable, queryFields, "budget")
	if !errors.Is(err, ErrOrderByFieldNotFound) {
		t.Errorf("expected ErrOrderByFieldNotFound, got %v", err)
	}
}

func TestOrderByClause_UnsortableField(t *testing.T) {
	registry := fields.NewDefaultRegistry()
	_, err := OrderByClause(registry, queryTable, queryFields, "field_4")
	if !errors.Is(err, ErrOrderByFieldNotPossible) {
		t.Errorf("expected ErrOrderByFieldNotPossible, got %v", err)
	}
}

func TestFilterFromParams_BuildsPredicate(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	params := map[string][]string{
		"filter__field_1__contains":    {"road"},
		"filter__field_2__higher_than": {"10"},
	}
	fragment, err := FilterFromParams(filters, registry, queryTable, queryFields, params)
	if err != nil {
		t.Fatalf("FilterFromParams: %v", err)
	}
	sql, args := fragment.Render(1)
	if sql != "(field_1 ILIKE $1 AND field_2 > $2)" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 2 || args[0] != "%road%" || args[1] != int64(10) {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilterFromParams_OrMode(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	params := map[string][]string{
		"filter_type":                  {"OR"},
		"filter__field_1__contains":    {"road"},
		"filter__field_2__higher_than": {"10"},
	}
	fragment, err := FilterFromParams(filters, registry, queryTable, queryFields, params)
	if err != nil {
		t.Fatalf("FilterFromParams: %v", err)
	}
	sql, _ := fragment.Render(1)
	if sql != "(field_1 ILIKE $1 OR field_2 > $2)" {
		t.Errorf("unexpected sql %q", sql)
	}
}

func TestFilterFromParams_RepeatedValues(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	params := map[string][]string{
		"filter__field_1__contains": {"a", "b"},
	}
	fragment, err := FilterFromParams(filters, registry, queryTable, queryFields, params)
	if err != nil {
		t.Fatalf("FilterFromParams: %v", err)
	}
	sql, args := fragment.Render(1)
	if sql != "(field_1 ILIKE $1 AND field_1 ILIKE $2)" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 2 || args[0] != "%a%" || args[1] != "%b%" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilterFromParams_IgnoresUnrelatedAndMalformedKeys(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	params := map[string][]string{
		"page":                   {"2"},
		"filter__budget__equal":  {"1"},
		"filter__field_x__equal": {"1"},
		"filter__field_1":        {"1"},
		"filter__field_1__equal": {"Roadmap"},
	}
	fragment, err := FilterFromParams(filters, registry, queryTable, queryFields, params)
	if err != nil {
		t.Fatalf("FilterFromParams: %v", err)
	}
	sql, args := fragment.Render(1)
	if sql != "field_1 = $1" {
		t.Errorf("unexpected sql %q", sql)
	}
	if len(args) != 1 || args[0] != "Roadmap" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestFilterFromParams_UnknownFieldRejected(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	params := map[string][]string{
		"filter__field_9__equal": {"x"},
	}
	_, err := FilterFromParams(filters, registry, queryTable, queryFields, params)
	if !errors.Is(err, ErrFilterFieldNotFound) {
		t.Errorf("expected ErrFilterFieldNotFound, got %v", err)
	}
}

func TestFilterFromParams_UnknownOperatorRejected(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	params := map[string][]string{
		"filter__field_1__sounds_like": {"x"},
	}
	_, err := FilterFromParams(filters, registry, queryTable, queryFields, params)
	if !errors.Is(err, filter.ErrFilterTypeNotFound) {
		t.Errorf("expected ErrFilterTypeNotFound, got %v", err)
	}
}

func TestFilterFromParams_NoFiltersMatchesEverything(t *testing.T) {
	filters := filter.NewDefaultRegistry()
	registry := fields.NewDefaultRegistry()
	fragment, err := FilterFromParams(filters, registry, queryTable, queryFields, map[string][]string{})
	if err != nil {
		t.Fatalf("FilterFromParams: %v", err)
	}
	if sql, _ := fragment.Render(1); sql != "TRUE" {
		t.Errorf("unexpected sql %q", sql)
	}
}
