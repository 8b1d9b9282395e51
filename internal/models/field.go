package models

import "fmt"

// Field type tags for the built-in field types.
const (
	FieldTypeText         = "text"
	FieldTypeLongText     = "long_text"
	FieldTypeURL          = "url"
	FieldTypeNumber       = "number"
	FieldTypeBoolean      = "boolean"
	FieldTypeDate         = "date"
	FieldTypeEmail        = "email"
	FieldTypeFile         = "file"
	FieldTypeSingleSelect = "single_select"
	FieldTypeLinkRow      = "link_row"
)

// Number field sub-types.
const (
	NumberTypeInteger = "INTEGER"
	NumberTypeDecimal = "DECIMAL"
)

// Date field display formats.
const (
	DateFormatEU  = "EU"
	DateFormatUS  = "US"
	DateFormatISO = "ISO"
)

// Time display formats for date fields that include time.
const (
	TimeFormat12 = "12"
	TimeFormat24 = "24"
)

// Field represents a user-defined column of a table
type Field struct {
	ID      int64
	TableID int64
	Name    string
	Type    string
	Primary bool
	Order   int
	Config  FieldConfig
}

// FieldConfig holds the type-specific settings of a field. Only the
// settings matching the field's type are meaningful; the rest stay at
// their zero value. Stored as a JSONB document in the meta schema.
type FieldConfig struct {
	TextDefault         string `json:"text_default,omitempty"`
	NumberType          string `json:"number_type,omitempty"`
	NumberDecimalPlaces int    `json:"number_decimal_places,omitempty"`
	NumberNegative      bool   `json:"number_negative,omitempty"`
	DateFormat          string `json:"date_format,omitempty"`
	DateIncludeTime     bool   `json:"date_include_time,omitempty"`
	DateTimeFormat      string `json:"date_time_format,omitempty"`
	LinkRowTableID      int64  `json:"link_row_table_id,omitempty"`
}

// ColumnName returns the physical column name backing the field
func (f Field) ColumnName() string {
	return fmt.Sprintf("field_%d", f.ID)
}

// RelationTableName returns the join table backing a link row field
func (f Field) RelationTableName() string {
	return fmt.Sprintf("database_relation_%d", f.ID)
}

// SelectOption represents one choice of a single select field
type SelectOption struct {
	ID      int64
	FieldID int64
	Value   string
	Color   string
	Order   int
}

// FileValue represents one entry of a file field's JSON list
type FileValue struct {
	Name        string `json:"name"`
	VisibleName string `json:"visible_name"`
	Size        int64  `json:"size,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	IsImage     bool   `json:"is_image,omitempty"`
}
