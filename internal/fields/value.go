package fields

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/zarybnicky/baserow/internal/models"
)

func coerceString(_ models.Field, value string) (interface{}, error) {
	return value, nil
}

func prepareString(f models.Field, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	default:
		return nil, errors.Newf("field %q expects a string, got %T", f.Name, value)
	}
}

func coerceNumber(f models.Field, value string) (interface{}, error) {
	if f.Config.NumberType == models.NumberTypeDecimal {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Name)
		}
		return d, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", f.Name)
	}
	return n, nil
}

func prepareNumber(f models.Field, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	d, err := toDecimal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", f.Name)
	}
	if !f.Config.NumberNegative && d.IsNegative() {
		return nil, errors.Newf("field %q does not allow negative values", f.Name)
	}
	if f.Config.NumberType == models.NumberTypeDecimal {
		return d, nil
	}
	// Integer columns truncate toward zero, like the write path of the
	// storage layer would.
	return d.IntPart(), nil
}

func toDecimal(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Decimal{}, errors.Newf("cannot convert %T to a number", value)
	}
}

// Truthy and falsy boolean literals accepted by the storage layer.
func coerceBoolean(f models.Field, value string) (interface{}, error) {
	switch strings.ToLower(value) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.ToLower(value))
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", f.Name)
	}
	return b, nil
}

func prepareBoolean(f models.Field, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		return coerceBoolean(f, v)
	default:
		return nil, errors.Newf("field %q expects a boolean, got %T", f.Name, value)
	}
}

func coerceDate(f models.Field, value string) (interface{}, error) {
	t, err := parseDate(f, value)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func prepareDate(f models.Field, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return normalizeDate(f, v), nil
	case string:
		return coerceDate(f, v)
	default:
		return nil, errors.Newf("field %q expects a date, got %T", f.Name, value)
	}
}

// parseDate parses a user-supplied date string. Naive values are
// interpreted as UTC; the field's date_format setting resolves
// day-first against month-first for ambiguous input like 02/03/2020.
func parseDate(f models.Field, value string) (time.Time, error) {
	var opts []dateparse.ParserOption
	switch f.Config.DateFormat {
	case models.DateFormatEU:
		opts = append(opts, dateparse.PreferMonthFirst(false))
	case models.DateFormatUS:
		opts = append(opts, dateparse.PreferMonthFirst(true))
	}
	t, err := dateparse.ParseIn(value, time.UTC, opts...)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "field %q", f.Name)
	}
	return normalizeDate(f, t), nil
}

func normalizeDate(f models.Field, t time.Time) time.Time {
	t = t.UTC()
	if !f.Config.DateIncludeTime {
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t
}

func coerceFileList(f models.Field, value string) (interface{}, error) {
	var files []models.FileValue
	if err := json.Unmarshal([]byte(value), &files); err != nil {
		return nil, errors.Wrapf(err, "field %q", f.Name)
	}
	return validateFileList(f, files)
}

func prepareFileList(f models.Field, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return []models.FileValue{}, nil
	case []models.FileValue:
		return validateFileList(f, v)
	case string:
		return coerceFileList(f, v)
	default:
		// Round-trip through JSON so []interface{} from decoded
		// request bodies is accepted too.
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", f.Name)
		}
		return coerceFileList(f, string(raw))
	}
}

func validateFileList(f models.Field, files []models.FileValue) (interface{}, error) {
	for i := range files {
		if files[i].Name == "" {
			return nil, errors.Newf("field %q: file entry %d has no name", f.Name, i)
		}
		if files[i].VisibleName == "" {
			files[i].VisibleName = files[i].Name
		}
	}
	return files, nil
}

func coerceOptionID(f models.Field, value string) (interface{}, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", f.Name)
	}
	return id, nil
}

func prepareOptionID(f models.Field, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		return coerceOptionID(f, v)
	default:
		return nil, errors.Newf("field %q expects a select option id, got %T", f.Name, value)
	}
}

func coerceLinkRow(f models.Field, _ string) (interface{}, error) {
	return nil, errors.Newf("field %q has no single column value", f.Name)
}

func prepareLinkRow(f models.Field, value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return []int64{}, nil
	case []int64:
		return v, nil
	case []interface{}:
		ids := make([]int64, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case int:
				ids = append(ids, int64(n))
			case int64:
				ids = append(ids, n)
			case float64:
				ids = append(ids, int64(n))
			default:
				return nil, errors.Newf("field %q expects row ids, got %T", f.Name, item)
			}
		}
		return ids, nil
	default:
		return nil, errors.Newf("field %q expects a list of row ids, got %T", f.Name, value)
	}
}
