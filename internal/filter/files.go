package filter

import (
	"strings"

	"github.com/zarybnicky/baserow/internal/models"
)

// filenameContainsFilter matches rows where any attached file's
// visible name contains the filter value, case-insensitively. Plain
// jsonb containment only matches whole elements, so the list is
// unnested and every element substring-matched. The value goes into
// the pattern as typed, wildcards included.
type filenameContainsFilter struct{}

func (filenameContainsFilter) Type() string {
	return TypeFilenameContains
}

func (filenameContainsFilter) CompatibleFieldTypes() []string {
	return []string{models.FieldTypeFile}
}

func (filenameContainsFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	sql := "EXISTS(" +
		"SELECT 1 FROM jsonb_array_elements(" + col.Name + ") attached_files " +
		"WHERE UPPER(attached_files ->> 'visible_name') LIKE UPPER(?))"
	return NewFragment(sql, "%"+value+"%")
}
