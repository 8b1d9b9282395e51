package store

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/zarybnicky/baserow/internal/models"
)

// Helpers turning the loosely typed values coming back from the pool
// into model fields. pgx hands back int32 for integer columns and
// int64 for bigint, so the numeric helpers accept both.

func scanInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int:
		return int64(n)
	}
	return 0
}

func scanInt(v interface{}) int {
	return int(scanInt64(v))
}

func scanString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	return ""
}

func scanBool(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

func scanTime(v interface{}) time.Time {
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}
	}
	return t
}

// scanFieldConfig decodes the jsonb config column, which pgx may
// surface as a decoded map or as raw bytes.
func scanFieldConfig(v interface{}) (models.FieldConfig, error) {
	var config models.FieldConfig
	switch raw := v.(type) {
	case nil:
		return config, nil
	case map[string]interface{}:
		data, err := json.Marshal(raw)
		if err != nil {
			return config, errors.Wrap(err, "failed to re-encode field config")
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return config, errors.Wrap(err, "failed to decode field config")
		}
	case []byte:
		if err := json.Unmarshal(raw, &config); err != nil {
			return config, errors.Wrap(err, "failed to decode field config")
		}
	case string:
		if err := json.Unmarshal([]byte(raw), &config); err != nil {
			return config, errors.Wrap(err, "failed to decode field config")
		}
	}
	return config, nil
}

func scanTable(row map[string]interface{}) models.Table {
	return models.Table{
		ID:        scanInt64(row["id"]),
		Name:      scanString(row["name"]),
		Order:     scanInt(row["order"]),
		CreatedOn: scanTime(row["created_on"]),
		UpdatedOn: scanTime(row["updated_on"]),
	}
}

func scanField(row map[string]interface{}) (models.Field, error) {
	config, err := scanFieldConfig(row["config"])
	if err != nil {
		return models.Field{}, err
	}
	return models.Field{
		ID:      scanInt64(row["id"]),
		TableID: scanInt64(row["table_id"]),
		Name:    scanString(row["name"]),
		Type:    scanString(row["type"]),
		Primary: scanBool(row["primary"]),
		Order:   scanInt(row["order"]),
		Config:  config,
	}, nil
}

func scanSelectOption(row map[string]interface{}) models.SelectOption {
	return models.SelectOption{
		ID:      scanInt64(row["id"]),
		FieldID: scanInt64(row["field_id"]),
		Value:   scanString(row["value"]),
		Color:   scanString(row["color"]),
		Order:   scanInt(row["order"]),
	}
}

func scanView(row map[string]interface{}) models.View {
	return models.View{
		ID:              scanInt64(row["id"]),
		TableID:         scanInt64(row["table_id"]),
		Name:            scanString(row["name"]),
		Type:            scanString(row["type"]),
		Order:           scanInt(row["order"]),
		FilterMode:      models.FilterMode(scanString(row["filter_type"])),
		FiltersDisabled: scanBool(row["filters_disabled"]),
		CreatedOn:       scanTime(row["created_on"]),
		UpdatedOn:       scanTime(row["updated_on"]),
	}
}

func scanViewFilter(row map[string]interface{}) models.ViewFilter {
	return models.ViewFilter{
		ID:      scanInt64(row["id"]),
		ViewID:  scanInt64(row["view_id"]),
		FieldID: scanInt64(row["field_id"]),
		Type:    scanString(row["type"]),
		Value:   scanString(row["value"]),
	}
}

func scanViewSort(row map[string]interface{}) models.ViewSort {
	return models.ViewSort{
		ID:      scanInt64(row["id"]),
		ViewID:  scanInt64(row["view_id"]),
		FieldID: scanInt64(row["field_id"]),
		Order:   models.SortOrder(scanString(row["order"])),
	}
}
