package models

import (
	"fmt"
	"time"
)

// Table represents a user-defined table
type Table struct {
	ID        int64
	Name      string
	Order     int
	CreatedOn time.Time
	UpdatedOn time.Time
}

// DatabaseTableName returns the physical table name storing the rows
func (t Table) DatabaseTableName() string {
	return fmt.Sprintf("database_table_%d", t.ID)
}

// Row system columns present on every generated table.
const (
	RowIDColumn    = "id"
	RowOrderColumn = "order"
)
