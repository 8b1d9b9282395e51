// Package rows reads and writes the rows of generated tables. Values
// pass through the field type's Prepare hook on the way in, and link
// row values live in relation tables next to the generated table.
package rows

import (
	"fmt"
	"strings"

	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/models"
)

// Query assembles a SELECT over a generated table. The WHERE clause
// comes in as a filter fragment so placeholders keep a single
// numbering across filters, limit and offset.
type Query struct {
	Table   models.Table
	Fields  []models.Field
	Where   filter.Fragment
	OrderBy string
	Limit   int
	Offset  int
}

// Columns lists the selected columns. Link row fields have no column
// of their own; their values are attached from the relation table
// afterwards.
func (q Query) Columns() []string {
	columns := []string{models.RowIDColumn, `"order"`, "created_on", "updated_on"}
	for _, field := range q.Fields {
		if field.Type == models.FieldTypeLinkRow {
			continue
		}
		columns = append(columns, field.ColumnName())
	}
	return columns
}

func (q Query) Build() (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.Columns(), ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Table.DatabaseTableName())

	var args []interface{}
	if !q.Where.IsDisabled() && !q.Where.IsEverything() {
		where, whereArgs := q.Where.Render(1)
		args = whereArgs
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	b.WriteString(" ORDER BY ")
	if q.OrderBy != "" {
		b.WriteString(q.OrderBy)
	} else {
		b.WriteString(`"order", id`)
	}

	next := len(args) + 1
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT $%d", next)
		args = append(args, q.Limit)
		next++
	}
	if q.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET $%d", next)
		args = append(args, q.Offset)
	}
	return b.String(), args
}

// BuildCount renders the matching COUNT query, sharing the WHERE
// clause but not the ordering or paging.
func (q Query) BuildCount() (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) AS count FROM ")
	b.WriteString(q.Table.DatabaseTableName())

	var args []interface{}
	if !q.Where.IsDisabled() && !q.Where.IsEverything() {
		where, whereArgs := q.Where.Render(1)
		args = whereArgs
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String(), args
}
