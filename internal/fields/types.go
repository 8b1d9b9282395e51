package fields

import (
	"fmt"
	"strings"

	"github.com/zarybnicky/baserow/internal/models"
)

// NewDefaultRegistry returns a registry populated with every built-in
// field type.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	mustRegister(r, textType())
	mustRegister(r, longTextType())
	mustRegister(r, urlType())
	mustRegister(r, numberType())
	mustRegister(r, booleanType())
	mustRegister(r, dateType())
	mustRegister(r, emailType())
	mustRegister(r, fileType())
	mustRegister(r, singleSelectType())
	mustRegister(r, linkRowType())
	return r
}

func mustRegister(r *Registry, t Type) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

func textType() Type {
	return Type{
		Tag:               models.FieldTypeText,
		Kind:              KindText,
		CanOrderBy:        true,
		AllowsEmptyString: true,
		Coerce:            coerceString,
		Prepare:           prepareString,
		ColumnDDL: func(f models.Field) string {
			ddl := "varchar(255)"
			if f.Config.TextDefault != "" {
				ddl += fmt.Sprintf(" DEFAULT '%s'", escapeLiteral(f.Config.TextDefault))
			}
			return ddl
		},
	}
}

func longTextType() Type {
	return Type{
		Tag:               models.FieldTypeLongText,
		Kind:              KindText,
		CanOrderBy:        true,
		AllowsEmptyString: true,
		Coerce:            coerceString,
		Prepare:           prepareString,
		ColumnDDL:         func(models.Field) string { return "text" },
	}
}

func urlType() Type {
	return Type{
		Tag:               models.FieldTypeURL,
		Kind:              KindText,
		CanOrderBy:        true,
		AllowsEmptyString: true,
		Coerce:            coerceString,
		Prepare:           prepareString,
		ColumnDDL:         func(models.Field) string { return "varchar(2000)" },
	}
}

func numberType() Type {
	return Type{
		Tag:        models.FieldTypeNumber,
		Kind:       KindNumber,
		CanOrderBy: true,
		Coerce:     coerceNumber,
		Prepare:    prepareNumber,
		ColumnDDL: func(f models.Field) string {
			if f.Config.NumberType == models.NumberTypeDecimal {
				return fmt.Sprintf("numeric(50,%d)", f.Config.NumberDecimalPlaces)
			}
			return "bigint"
		},
	}
}

func booleanType() Type {
	return Type{
		Tag:        models.FieldTypeBoolean,
		Kind:       KindBoolean,
		CanOrderBy: true,
		Coerce:     coerceBoolean,
		Prepare:    prepareBoolean,
		ColumnDDL:  func(models.Field) string { return "boolean NOT NULL DEFAULT false" },
	}
}

func dateType() Type {
	return Type{
		Tag:        models.FieldTypeDate,
		Kind:       KindDate,
		CanOrderBy: true,
		Coerce:     coerceDate,
		Prepare:    prepareDate,
		ColumnDDL: func(f models.Field) string {
			if f.Config.DateIncludeTime {
				return "timestamptz"
			}
			return "date"
		},
	}
}

func emailType() Type {
	return Type{
		Tag:               models.FieldTypeEmail,
		Kind:              KindText,
		CanOrderBy:        true,
		AllowsEmptyString: true,
		Coerce:            coerceString,
		Prepare:           prepareString,
		ColumnDDL:         func(models.Field) string { return "varchar(254)" },
	}
}

func fileType() Type {
	return Type{
		Tag:     models.FieldTypeFile,
		Kind:    KindJSONList,
		Coerce:  coerceFileList,
		Prepare: prepareFileList,
		ColumnDDL: func(models.Field) string {
			return "jsonb NOT NULL DEFAULT '[]'::jsonb"
		},
	}
}

func singleSelectType() Type {
	return Type{
		Tag:        models.FieldTypeSingleSelect,
		Kind:       KindForeignKey,
		CanOrderBy: true,
		Coerce:     coerceOptionID,
		Prepare:    prepareOptionID,
		ColumnDDL:  func(models.Field) string { return "integer" },
		// Rows sort by the selected option's value, not its id.
		OrderExpr: func(f models.Field, t models.Table) string {
			return fmt.Sprintf(
				"(SELECT so.value FROM database_select_option so WHERE so.id = %s.%s)",
				t.DatabaseTableName(), f.ColumnName(),
			)
		},
	}
}

func linkRowType() Type {
	return Type{
		Tag:     models.FieldTypeLinkRow,
		Kind:    KindRelation,
		Coerce:  coerceLinkRow,
		Prepare: prepareLinkRow,
		// Values live in the relation table, not in a column.
		ColumnDDL: func(models.Field) string { return "" },
	}
}

func escapeLiteral(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
