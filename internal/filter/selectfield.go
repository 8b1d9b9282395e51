package filter

import (
	"strconv"
	"strings"

	"github.com/zarybnicky/baserow/internal/models"
)

// singleSelectEqualFilter matches rows whose selected option id
// equals the filter value. A value that is not an integer degrades
// to matching everything.
type singleSelectEqualFilter struct{}

func (singleSelectEqualFilter) Type() string {
	return TypeSingleSelectEqual
}

func (singleSelectEqualFilter) CompatibleFieldTypes() []string {
	return []string{models.FieldTypeSingleSelect}
}

func (singleSelectEqualFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return Everything()
	}
	return NewFragment(col.Name+" = ?", id)
}
