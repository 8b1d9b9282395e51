package rows

import (
	"strings"

	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/models"
)

// SearchFragment matches rows where any searchable column contains the
// term. Text columns match case-insensitively, and the id and number
// columns match on their text form. A blank term disables the search.
func SearchFragment(registry *fields.Registry, tableFields []models.Field, term string) filter.Fragment {
	term = strings.TrimSpace(term)
	if term == "" {
		return filter.Disabled()
	}
	pattern := "%" + filter.EscapeLike(term) + "%"

	group := filter.Group{Mode: filter.ModeOr}
	group.Fragments = append(group.Fragments,
		filter.NewFragment("CAST(id AS text) ILIKE ?", pattern))
	for _, field := range tableFields {
		fieldType, err := registry.Get(field.Type)
		if err != nil {
			continue
		}
		switch fieldType.Kind {
		case fields.KindText:
			group.Fragments = append(group.Fragments,
				filter.NewFragment(field.ColumnName()+" ILIKE ?", pattern))
		case fields.KindNumber:
			group.Fragments = append(group.Fragments,
				filter.NewFragment("CAST("+field.ColumnName()+" AS text) ILIKE ?", pattern))
		}
	}
	return group.Build()
}
