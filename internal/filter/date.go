package filter

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/zarybnicky/baserow/internal/models"
)

// Date-only strings are at most 10 characters: 2006-01-02.
const dateOnlyLength = 10

// dateEqualFilter matches rows on a calendar day or an exact instant.
// The value is parsed leniently, naive input is taken as UTC. A
// date-only value matches any time of day on that UTC date, even
// against a timestamp column; a value carrying time precision must
// match the exact UTC instant.
type dateEqualFilter struct{}

func (dateEqualFilter) Type() string {
	return TypeDateEqual
}

func (dateEqualFilter) CompatibleFieldTypes() []string {
	return []string{models.FieldTypeDate}
}

func (dateEqualFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return Everything()
	}
	t = t.UTC()
	if !col.Field.Config.DateIncludeTime {
		// Plain date columns always compare on the day.
		return NewFragment(col.Name+" = ?::date", t.Format("2006-01-02"))
	}
	if len(value) <= dateOnlyLength {
		return NewFragment(
			"("+col.Name+" AT TIME ZONE 'UTC')::date = ?::date",
			t.Format("2006-01-02"),
		)
	}
	return NewFragment(col.Name+" = ?", t)
}
