package filter

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zarybnicky/baserow/internal/models"
)

// higherThanFilter matches rows whose number is greater than the
// filter value. On integer columns a fractional filter value is
// floored first, so "5.7" filters as > 5. The adjustment is applied
// to the filter value, never to the column.
type higherThanFilter struct{}

func (higherThanFilter) Type() string {
	return TypeHigherThan
}

func (higherThanFilter) CompatibleFieldTypes() []string {
	return []string{models.FieldTypeNumber}
}

func (higherThanFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Everything()
	}
	if col.Field.Config.NumberType == models.NumberTypeInteger {
		return NewFragment(col.Name+" > ?", d.Floor().IntPart())
	}
	return NewFragment(col.Name+" > ?", d)
}

// lowerThanFilter mirrors higherThanFilter with < and a ceiling on
// integer columns, so "5.2" filters as < 6.
type lowerThanFilter struct{}

func (lowerThanFilter) Type() string {
	return TypeLowerThan
}

func (lowerThanFilter) CompatibleFieldTypes() []string {
	return []string{models.FieldTypeNumber}
}

func (lowerThanFilter) Apply(col Column, value string) Fragment {
	value = strings.TrimSpace(value)
	if value == "" {
		return Disabled()
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Everything()
	}
	if col.Field.Config.NumberType == models.NumberTypeInteger {
		return NewFragment(col.Name+" < ?", d.Ceil().IntPart())
	}
	return NewFragment(col.Name+" < ?", d)
}
