package filter

import (
	"strings"

	"github.com/zarybnicky/baserow/internal/models"
)

// containsFilter matches rows whose text contains the filter value,
// case-insensitively.
type containsFilter struct{}

func (containsFilter) Type() string {
	return TypeContains
}

func (containsFilter) CompatibleFieldTypes() []string {
	return []string{
		models.FieldTypeText,
		models.FieldTypeLongText,
		models.FieldTypeURL,
		models.FieldTypeEmail,
	}
}

func (containsFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	return NewFragment(col.Name+" ILIKE ?", "%"+EscapeLike(value)+"%")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in a literal so it only
// matches itself inside a pattern
func EscapeLike(value string) string {
	return likeEscaper.Replace(value)
}
