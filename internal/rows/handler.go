package rows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/zarybnicky/baserow/internal/db"
	"github.com/zarybnicky/baserow/internal/fields"
	"github.com/zarybnicky/baserow/internal/filter"
	"github.com/zarybnicky/baserow/internal/history"
	"github.com/zarybnicky/baserow/internal/models"
)

// Row is a stored row with its values keyed by field id. Link row
// fields carry the related row ids.
type Row struct {
	ID        int64
	Order     decimal.Decimal
	Values    map[int64]interface{}
	CreatedOn time.Time
	UpdatedOn time.Time
}

// ListOptions narrow, order and page a listing.
type ListOptions struct {
	Where   filter.Fragment
	OrderBy string
	Search  string
	Limit   int
	Offset  int
}

type Handler struct {
	pool       *db.Pool
	fieldTypes *fields.Registry
	history    *history.Store
	logger     *zap.Logger
}

// NewHandler returns a row handler. The history store is optional; a
// nil store disables query logging.
func NewHandler(pool *db.Pool, fieldTypes *fields.Registry, historyStore *history.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pool:       pool,
		fieldTypes: fieldTypes,
		history:    historyStore,
		logger:     logger,
	}
}

func (h *Handler) buildWhere(tableFields []models.Field, opts ListOptions) filter.Fragment {
	where := opts.Where
	if opts.Search != "" {
		where = where.And(SearchFragment(h.fieldTypes, tableFields, opts.Search))
	}
	return where
}

// List returns the rows matching the options, link row values
// included.
func (h *Handler) List(ctx context.Context, table models.Table, tableFields []models.Field, opts ListOptions) ([]Row, error) {
	query := Query{
		Table:   table,
		Fields:  tableFields,
		Where:   h.buildWhere(tableFields, opts),
		OrderBy: opts.OrderBy,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	}
	sql, args := query.Build()

	start := time.Now()
	raw, err := h.pool.Query(ctx, sql, args...)
	h.record(table, sql, start, int64(len(raw)), err)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list rows")
	}

	list := make([]Row, 0, len(raw))
	for _, rowMap := range raw {
		list = append(list, rowFromMap(tableFields, rowMap))
	}
	if err := h.attachLinkValues(ctx, tableFields, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Count returns how many rows match the options, ignoring paging.
func (h *Handler) Count(ctx context.Context, table models.Table, tableFields []models.Field, opts ListOptions) (int64, error) {
	query := Query{
		Table:  table,
		Fields: tableFields,
		Where:  h.buildWhere(tableFields, opts),
	}
	sql, args := query.BuildCount()
	start := time.Now()
	row, err := h.pool.QueryRow(ctx, sql, args...)
	count, _ := row["count"].(int64)
	h.record(table, sql, start, count, err)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count rows")
	}
	return count, nil
}

// Get returns a single row by id.
func (h *Handler) Get(ctx context.Context, table models.Table, tableFields []models.Field, rowID int64) (Row, error) {
	query := Query{
		Table:  table,
		Fields: tableFields,
		Where:  filter.NewFragment("id = ?", rowID),
	}
	sql, args := query.Build()
	rowMap, err := h.pool.QueryRow(ctx, sql, args...)
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return Row{}, errors.Wrapf(ErrRowNotFound, "row %d", rowID)
		}
		return Row{}, err
	}
	row := rowFromMap(tableFields, rowMap)
	rows := []Row{row}
	if err := h.attachLinkValues(ctx, tableFields, rows); err != nil {
		return Row{}, err
	}
	return rows[0], nil
}

// Create inserts a row. Values pass through the field type's Prepare
// hook, and link row values become relation table rows in the same
// transaction. Fields without a value keep their column default.
func (h *Handler) Create(ctx context.Context, table models.Table, tableFields []models.Field, values map[int64]interface{}) (Row, error) {
	columns, params, relations, err := h.prepareValues(tableFields, values)
	if err != nil {
		return Row{}, err
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return Row{}, err
	}
	defer tx.Rollback(ctx)

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table.DatabaseTableName())
	b.WriteString(` ("order"`)
	for _, column := range columns {
		b.WriteString(", ")
		b.WriteString(column)
	}
	fmt.Fprintf(&b, `) VALUES ((SELECT COALESCE(MAX("order"), 0) + 1 FROM %s)`, table.DatabaseTableName())
	for i := range columns {
		fmt.Fprintf(&b, ", $%d", i+1)
	}
	b.WriteString(`) RETURNING id`)

	var rowID int64
	if err := tx.QueryRow(ctx, b.String(), params...).Scan(&rowID); err != nil {
		return Row{}, errors.Wrap(err, "failed to insert row")
	}
	for fieldID, relatedIDs := range relations {
		field := fieldByID(tableFields, fieldID)
		for _, relatedID := range relatedIDs {
			_, err := tx.Exec(ctx, fmt.Sprintf(
				"INSERT INTO %s (row_id, related_row_id) VALUES ($1, $2)",
				field.RelationTableName()), rowID, relatedID)
			if err != nil {
				return Row{}, errors.Wrapf(err, "failed to link row %d", relatedID)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Row{}, errors.Wrap(err, "failed to commit row creation")
	}

	h.logger.Debug("created row",
		zap.Int64("table_id", table.ID),
		zap.Int64("row_id", rowID))
	return h.Get(ctx, table, tableFields, rowID)
}

// Update writes the given values; fields absent from the map keep
// their current value. Link row values replace the field's relations.
func (h *Handler) Update(ctx context.Context, table models.Table, tableFields []models.Field, rowID int64, values map[int64]interface{}) (Row, error) {
	columns, params, relations, err := h.prepareValues(tableFields, values)
	if err != nil {
		return Row{}, err
	}

	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return Row{}, err
	}
	defer tx.Rollback(ctx)

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table.DatabaseTableName())
	b.WriteString(" SET updated_on = now()")
	for i, column := range columns {
		fmt.Fprintf(&b, ", %s = $%d", column, i+1)
	}
	fmt.Fprintf(&b, " WHERE id = $%d", len(columns)+1)
	params = append(params, rowID)

	tag, err := tx.Exec(ctx, b.String(), params...)
	if err != nil {
		return Row{}, errors.Wrap(err, "failed to update row")
	}
	if tag.RowsAffected() == 0 {
		return Row{}, errors.Wrapf(ErrRowNotFound, "row %d", rowID)
	}
	for fieldID, relatedIDs := range relations {
		field := fieldByID(tableFields, fieldID)
		_, err := tx.Exec(ctx, fmt.Sprintf(
			"DELETE FROM %s WHERE row_id = $1", field.RelationTableName()), rowID)
		if err != nil {
			return Row{}, errors.Wrap(err, "failed to clear row links")
		}
		for _, relatedID := range relatedIDs {
			_, err := tx.Exec(ctx, fmt.Sprintf(
				"INSERT INTO %s (row_id, related_row_id) VALUES ($1, $2)",
				field.RelationTableName()), rowID, relatedID)
			if err != nil {
				return Row{}, errors.Wrapf(err, "failed to link row %d", relatedID)
			}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Row{}, errors.Wrap(err, "failed to commit row update")
	}
	return h.Get(ctx, table, tableFields, rowID)
}

// Delete removes the row and its relation table entries.
func (h *Handler) Delete(ctx context.Context, table models.Table, tableFields []models.Field, rowID int64) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, field := range tableFields {
		if field.Type != models.FieldTypeLinkRow {
			continue
		}
		_, err := tx.Exec(ctx, fmt.Sprintf(
			"DELETE FROM %s WHERE row_id = $1", field.RelationTableName()), rowID)
		if err != nil {
			return errors.Wrap(err, "failed to clear row links")
		}
	}
	tag, err := tx.Exec(ctx, fmt.Sprintf(
		"DELETE FROM %s WHERE id = $1", table.DatabaseTableName()), rowID)
	if err != nil {
		return errors.Wrap(err, "failed to delete row")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrRowNotFound, "row %d", rowID)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit row deletion")
	}
	h.logger.Debug("deleted row",
		zap.Int64("table_id", table.ID),
		zap.Int64("row_id", rowID))
	return nil
}

// prepareValues runs each provided value through its field type and
// splits column values from relation ids. Column order follows the
// field order so the generated SQL is stable. A value keyed by a
// field id the table does not have is an error.
func (h *Handler) prepareValues(tableFields []models.Field, values map[int64]interface{}) ([]string, []interface{}, map[int64][]int64, error) {
	for id := range values {
		if fieldByID(tableFields, id).ID == 0 {
			return nil, nil, nil, errors.Wrapf(ErrValueFieldNotFound, "field %d", id)
		}
	}

	var columns []string
	var params []interface{}
	relations := make(map[int64][]int64)

	for _, field := range tableFields {
		value, ok := values[field.ID]
		if !ok {
			continue
		}
		fieldType, err := h.fieldTypes.Get(field.Type)
		if err != nil {
			return nil, nil, nil, err
		}
		prepared, err := fieldType.Prepare(field, value)
		if err != nil {
			return nil, nil, nil, err
		}
		if fieldType.Kind == fields.KindRelation {
			ids, _ := prepared.([]int64)
			relations[field.ID] = ids
			continue
		}
		columns = append(columns, field.ColumnName())
		params = append(params, prepared)
	}
	return columns, params, relations, nil
}

// attachLinkValues fills in the related row ids for every link row
// field, one relation table query per field.
func (h *Handler) attachLinkValues(ctx context.Context, tableFields []models.Field, list []Row) error {
	if len(list) == 0 {
		return nil
	}
	rowIDs := make([]int64, 0, len(list))
	index := make(map[int64]int, len(list))
	for i, row := range list {
		rowIDs = append(rowIDs, row.ID)
		index[row.ID] = i
	}

	for _, field := range tableFields {
		if field.Type != models.FieldTypeLinkRow {
			continue
		}
		for i := range list {
			list[i].Values[field.ID] = []int64{}
		}
		links, err := h.pool.Query(ctx, fmt.Sprintf(
			"SELECT row_id, related_row_id FROM %s WHERE row_id = ANY($1) ORDER BY related_row_id",
			field.RelationTableName()), rowIDs)
		if err != nil {
			return errors.Wrap(err, "failed to load row links")
		}
		for _, link := range links {
			rowID, _ := link["row_id"].(int64)
			relatedID, _ := link["related_row_id"].(int64)
			i, ok := index[rowID]
			if !ok {
				continue
			}
			ids := list[i].Values[field.ID].([]int64)
			list[i].Values[field.ID] = append(ids, relatedID)
		}
	}
	return nil
}

func (h *Handler) record(table models.Table, query string, start time.Time, rowCount int64, err error) {
	if h.history == nil {
		return
	}
	entry := history.Entry{
		TableID:  table.ID,
		Query:    query,
		Duration: time.Since(start),
		RowCount: rowCount,
		Success:  err == nil,
	}
	if err != nil {
		entry.ErrorMessage = err.Error()
	}
	if addErr := h.history.Add(entry); addErr != nil {
		h.logger.Warn("failed to record query history", zap.Error(addErr))
	}
}

func fieldByID(tableFields []models.Field, id int64) models.Field {
	for _, field := range tableFields {
		if field.ID == id {
			return field
		}
	}
	return models.Field{}
}

// rowFromMap converts a result row into a Row, mapping generated
// column names back to field ids.
func rowFromMap(tableFields []models.Field, rowMap map[string]interface{}) Row {
	row := Row{
		Values: make(map[int64]interface{}, len(tableFields)),
	}
	if id, ok := rowMap[models.RowIDColumn].(int64); ok {
		row.ID = id
	}
	row.Order = rowOrder(rowMap[models.RowOrderColumn])
	if t, ok := rowMap["created_on"].(time.Time); ok {
		row.CreatedOn = t
	}
	if t, ok := rowMap["updated_on"].(time.Time); ok {
		row.UpdatedOn = t
	}
	for _, field := range tableFields {
		if field.Type == models.FieldTypeLinkRow {
			continue
		}
		row.Values[field.ID] = rowMap[field.ColumnName()]
	}
	return row
}

func rowOrder(v interface{}) decimal.Decimal {
	switch d := v.(type) {
	case decimal.Decimal:
		return d
	case string:
		if parsed, err := decimal.NewFromString(d); err == nil {
			return parsed
		}
	case float64:
		return decimal.NewFromFloat(d)
	}
	return decimal.Zero
}
