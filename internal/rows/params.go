package rows

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/models"
)

// OrderByClause parses a user supplied ordering like "field_1,-field_2"
// into the body of an ORDER BY clause. Bare field ids work too. The
// row order and id always break remaining ties, so the result is never
// empty.
func OrderByClause(registry *fields.Registry, table models.Table, tableFields []models.Field, orderBy string) (string, error) {
	byID := make(map[int64]models.Field, len(tableFields))
	for _, field := range tableFields {
		byID[field.ID] = field
	}

	var parts []string
	for _, token := range strings.Split(orderBy, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		descending := strings.HasPrefix(token, "-")
		token = strings.TrimPrefix(token, "-")
		id, err := strconv.ParseInt(strings.TrimPrefix(token, "field_"), 10, 64)
		if err != nil {
			return "", errors.Wrapf(ErrOrderByFieldNotFound, "%q", token)
		}
		field, ok := byID[id]
		if !ok {
			return "", errors.Wrapf(ErrOrderByFieldNotFound, "field %d", id)
		}
		fieldType, err := registry.Get(field.Type)
		if err != nil {
			return "", err
		}
		if !fieldType.CanOrderBy {
			return "", errors.Wrapf(ErrOrderByFieldNotPossible, "%q fields have no ordering", field.Type)
		}
		expr := field.ColumnName()
		if fieldType.OrderExpr != nil {
			expr = fieldType.OrderExpr(field, table)
		}
		if descending {
			parts = append(parts, expr+" DESC NULLS LAST")
		} else {
			parts = append(parts, expr+" ASC NULLS FIRST")
		}
	}
	parts = append(parts, `"order"`, "id")
	return strings.Join(parts, ", "), nil
}

// FilterFromParams builds a predicate from query string style
// parameters. Keys look like "filter__field_2__higher_than" and may
// repeat; keys that do not match the pattern are ignored so unrelated
// parameters can share the map. The optional "filter_type" key
// switches the combination from AND to OR.
func FilterFromParams(filters *filter.Registry, registry *fields.Registry, table models.Table, tableFields []models.Field, params map[string][]string) (filter.Fragment, error) {
	byID := make(map[int64]models.Field, len(tableFields))
	for _, field := range tableFields {
		byID[field.ID] = field
	}

	group := filter.Group{Mode: filter.ModeAnd}
	if modes := params["filter_type"]; len(modes) > 0 && strings.EqualFold(modes[0], "OR") {
		group.Mode = filter.ModeOr
	}

	keys := make([]string, 0, len(params))
	for key := range params {
		if strings.HasPrefix(key, "filter__") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts := strings.SplitN(strings.TrimPrefix(key, "filter__"), "__", 2)
		if len(parts) != 2 {
			continue
		}
		idPart, ok := strings.CutPrefix(parts[0], "field_")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			continue
		}
		field, ok := byID[id]
		if !ok {
			return filter.Fragment{}, errors.Wrapf(ErrFilterFieldNotFound, "field %d", id)
		}
		fieldType, err := registry.Get(field.Type)
		if err != nil {
			return filter.Fragment{}, err
		}
		column := filter.NewColumn(table, field, fieldType)
		for _, value := range params[key] {
			fragment, err := filters.Evaluate(column, parts[1], value)
			if err != nil {
				return filter.Fragment{}, err
			}
			group.Fragments = append(group.Fragments, fragment)
		}
	}
	return group.Build(), nil
}
