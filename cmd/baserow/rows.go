package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zarybnicky/baserow/internal/models"
	"github.com/zarybnicky/baserow/internal/rows"
)

var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Read and write table rows",
}

var rowsListArgs struct {
	viewID     int64
	search     string
	orderBy    string
	filters    []string
	filterType string
	limit      int
	offset     int
}

var rowsListCmd = &cobra.Command{
	Use:   "list <table-id>",
	Short: "List rows, optionally through a view's filters and sorts",
	Args:  cobra.ExactArgs(1),
	RunE:  rowsListRunE,
}

var rowsCountArgs struct {
	search string
}

var rowsCountCmd = &cobra.Command{
	Use:   "count <table-id>",
	Short: "Count rows",
	Args:  cobra.ExactArgs(1),
	RunE:  rowsCountRunE,
}

var rowsGetCmd = &cobra.Command{
	Use:   "get <table-id> <row-id>",
	Short: "Print one row as JSON",
	Args:  cobra.ExactArgs(2),
	RunE:  rowsGetRunE,
}

var rowsCreateArgs struct {
	sets []string
}

var rowsCreateCmd = &cobra.Command{
	Use:   "create <table-id>",
	Short: "Create a row",
	Args:  cobra.ExactArgs(1),
	RunE:  rowsCreateRunE,
}

var rowsUpdateArgs struct {
	sets []string
}

var rowsUpdateCmd = &cobra.Command{
	Use:   "update <table-id> <row-id>",
	Short: "Update a row's values",
	Args:  cobra.ExactArgs(2),
	RunE:  rowsUpdateRunE,
}

var rowsDeleteCmd = &cobra.Command{
	Use:   "delete <table-id> <row-id>",
	Short: "Delete a row",
	Args:  cobra.ExactArgs(2),
	RunE:  rowsDeleteRunE,
}

func init() {
	rowsListCmd.Flags().Int64Var(&rowsListArgs.viewID, "view", 0, "Apply this view's filters and sorts")
	rowsListCmd.Flags().StringVar(&rowsListArgs.search, "search", "", "Match rows containing this text")
	rowsListCmd.Flags().StringVar(&rowsListArgs.orderBy, "order-by", "", "Order like field_1,-field_2")
	rowsListCmd.Flags().StringArrayVar(&rowsListArgs.filters, "filter", nil, "Ad hoc filter like field_1__contains=go, repeatable")
	rowsListCmd.Flags().StringVar(&rowsListArgs.filterType, "filter-type", "AND", "Combine ad hoc filters with AND or OR")
	rowsListCmd.Flags().IntVar(&rowsListArgs.limit, "limit", 0, "Maximum rows to return (defaults to the configured limit)")
	rowsListCmd.Flags().IntVar(&rowsListArgs.offset, "offset", 0, "Rows to skip")
	rowsCountCmd.Flags().StringVar(&rowsCountArgs.search, "search", "", "Match rows containing this text")
	rowsCreateCmd.Flags().StringArrayVar(&rowsCreateArgs.sets, "set", nil, "Field value like <field-id>=<value>, repeatable")
	rowsUpdateCmd.Flags().StringArrayVar(&rowsUpdateArgs.sets, "set", nil, "Field value like <field-id>=<value>, repeatable")
	rowsCmd.AddCommand(rowsListCmd, rowsCountCmd, rowsGetCmd, rowsCreateCmd, rowsUpdateCmd, rowsDeleteCmd)
	rootCmd.AddCommand(rowsCmd)
}

func rowsListRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx, cancel := rt.queryContext(cmd.Context())
	defer cancel()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	tableFields, err := rt.store.ListFields(ctx, tableID)
	if err != nil {
		return err
	}

	opts := rows.ListOptions{
		Search: rowsListArgs.search,
		Limit:  rowsListArgs.limit,
		Offset: rowsListArgs.offset,
	}
	if opts.Limit <= 0 {
		opts.Limit = rt.cfg.Query.DefaultLimit
	}

	if rowsListArgs.viewID != 0 {
		view, err := rt.store.GetView(ctx, rowsListArgs.viewID)
		if err != nil {
			return err
		}
		viewFilters, err := rt.store.ListViewFilters(ctx, view.ID)
		if err != nil {
			return err
		}
		viewSorts, err := rt.store.ListViewSorts(ctx, view.ID)
		if err != nil {
			return err
		}
		opts.Where, err = rt.views.ApplyFilters(table, view, viewFilters, tableFields)
		if err != nil {
			return err
		}
		opts.OrderBy, err = rt.views.ApplySorting(table, view, viewSorts, tableFields)
		if err != nil {
			return err
		}
	}

	if len(rowsListArgs.filters) > 0 {
		params := map[string][]string{"filter_type": {rowsListArgs.filterType}}
		for _, raw := range rowsListArgs.filters {
			key, value, found := strings.Cut(raw, "=")
			if !found {
				return fmt.Errorf("invalid filter %q, expected field_<id>__<type>=<value>", raw)
			}
			key = "filter__" + key
			params[key] = append(params[key], value)
		}
		adHoc, err := rows.FilterFromParams(rt.filters, rt.fieldTypes, table, tableFields, params)
		if err != nil {
			return err
		}
		opts.Where = opts.Where.And(adHoc)
	}

	if rowsListArgs.orderBy != "" {
		opts.OrderBy, err = rows.OrderByClause(rt.fieldTypes, table, tableFields, rowsListArgs.orderBy)
		if err != nil {
			return err
		}
	}

	list, err := rt.rows.List(ctx, table, tableFields, opts)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(os.Stdout)
	for _, row := range list {
		if err := encoder.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func rowsCountRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx, cancel := rt.queryContext(cmd.Context())
	defer cancel()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	tableFields, err := rt.store.ListFields(ctx, tableID)
	if err != nil {
		return err
	}
	count, err := rt.rows.Count(ctx, table, tableFields, rows.ListOptions{Search: rowsCountArgs.search})
	if err != nil {
		return err
	}
	fmt.Println(count)
	return nil
}

func rowsGetRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx, cancel := rt.queryContext(cmd.Context())
	defer cancel()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	rowID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid row id %q", args[1])
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	tableFields, err := rt.store.ListFields(ctx, tableID)
	if err != nil {
		return err
	}
	row, err := rt.rows.Get(ctx, table, tableFields, rowID)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(row)
}

func rowsCreateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx, cancel := rt.queryContext(cmd.Context())
	defer cancel()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	tableFields, err := rt.store.ListFields(ctx, tableID)
	if err != nil {
		return err
	}
	values, err := parseSetValues(rt, tableFields, rowsCreateArgs.sets)
	if err != nil {
		return err
	}
	row, err := rt.rows.Create(ctx, table, tableFields, values)
	if err != nil {
		return err
	}
	fmt.Printf("created row %d\n", row.ID)
	return nil
}

func rowsUpdateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx, cancel := rt.queryContext(cmd.Context())
	defer cancel()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	rowID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid row id %q", args[1])
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	tableFields, err := rt.store.ListFields(ctx, tableID)
	if err != nil {
		return err
	}
	values, err := parseSetValues(rt, tableFields, rowsUpdateArgs.sets)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("nothing to update, pass at least one --set")
	}
	_, err = rt.rows.Update(ctx, table, tableFields, rowID, values)
	return err
}

// parseSetValues turns repeated --set flags into coerced field values
// keyed by field id. Link row values are comma separated row ids.
func parseSetValues(rt *runtime, tableFields []models.Field, sets []string) (map[int64]interface{}, error) {
	values := make(map[int64]interface{})
	for _, raw := range sets {
		key, rawValue, found := strings.Cut(raw, "=")
		if !found {
			return nil, fmt.Errorf("invalid value %q, expected <field-id>=<value>", raw)
		}
		fieldID, err := strconv.ParseInt(strings.TrimPrefix(key, "field_"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid field id %q", key)
		}
		field, found := findField(tableFields, fieldID)
		if !found {
			return nil, fmt.Errorf("field %d does not exist", fieldID)
		}
		if field.Type == models.FieldTypeLinkRow {
			ids, err := parseRowIDs(rawValue)
			if err != nil {
				return nil, err
			}
			values[field.ID] = ids
			continue
		}
		fieldType, err := rt.fieldTypes.Get(field.Type)
		if err != nil {
			return nil, err
		}
		typed, err := fieldType.Coerce(field, rawValue)
		if err != nil {
			return nil, err
		}
		values[field.ID] = typed
	}
	return values, nil
}

func rowsDeleteRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx, cancel := rt.queryContext(cmd.Context())
	defer cancel()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	rowID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid row id %q", args[1])
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	tableFields, err := rt.store.ListFields(ctx, tableID)
	if err != nil {
		return err
	}
	return rt.rows.Delete(ctx, table, tableFields, rowID)
}

func findField(tableFields []models.Field, id int64) (models.Field, bool) {
	for _, field := range tableFields {
		if field.ID == id {
			return field, true
		}
	}
	return models.Field{}, false
}

func parseRowIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid row id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
