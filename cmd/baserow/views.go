package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zarybnicky/baserow/internal/models"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage table views",
}

var viewsListCmd = &cobra.Command{
	Use:   "list <table-id>",
	Short: "List a table's views",
	Args:  cobra.ExactArgs(1),
	RunE:  viewsListRunE,
}

var viewsCreateCmd = &cobra.Command{
	Use:   "create <table-id> <name>",
	Short: "Create a grid view",
	Args:  cobra.ExactArgs(2),
	RunE:  viewsCreateRunE,
}

var viewsUpdateArgs struct {
	name            string
	filterType      string
	filtersDisabled bool
}

var viewsUpdateCmd = &cobra.Command{
	Use:   "update <view-id>",
	Short: "Update a view's name, filter mode or filters-disabled flag",
	Args:  cobra.ExactArgs(1),
	RunE:  viewsUpdateRunE,
}

var viewsDeleteCmd = &cobra.Command{
	Use:   "delete <view-id>",
	Short: "Delete a view and its filters and sorts",
	Args:  cobra.ExactArgs(1),
	RunE:  viewsDeleteRunE,
}

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Manage view filters",
}

var filtersListCmd = &cobra.Command{
	Use:   "list <view-id>",
	Short: "List a view's filters",
	Args:  cobra.ExactArgs(1),
	RunE:  filtersListRunE,
}

var filtersAddCmd = &cobra.Command{
	Use:   "add <view-id> <field-id> <type> [value]",
	Short: "Add a filter to a view",
	Args:  cobra.RangeArgs(3, 4),
	RunE:  filtersAddRunE,
}

var filtersUpdateCmd = &cobra.Command{
	Use:   "update <filter-id> <field-id> <type> [value]",
	Short: "Rewrite a view filter",
	Args:  cobra.RangeArgs(3, 4),
	RunE:  filtersUpdateRunE,
}

var filtersRemoveCmd = &cobra.Command{
	Use:   "remove <filter-id>",
	Short: "Remove a view filter",
	Args:  cobra.ExactArgs(1),
	RunE:  filtersRemoveRunE,
}

var sortsAddDescending bool
var sortsUpdateDescending bool

var sortsCmd = &cobra.Command{
	Use:   "sorts",
	Short: "Manage view sorts",
}

var sortsAddCmd = &cobra.Command{
	Use:   "add <view-id> <field-id>",
	Short: "Add a sort to a view",
	Args:  cobra.ExactArgs(2),
	RunE:  sortsAddRunE,
}

var sortsUpdateCmd = &cobra.Command{
	Use:   "update <sort-id> <field-id>",
	Short: "Point a view sort at another field or direction",
	Args:  cobra.ExactArgs(2),
	RunE:  sortsUpdateRunE,
}

var sortsRemoveCmd = &cobra.Command{
	Use:   "remove <sort-id>",
	Short: "Remove a view sort",
	Args:  cobra.ExactArgs(1),
	RunE:  sortsRemoveRunE,
}

func init() {
	viewsUpdateCmd.Flags().StringVar(&viewsUpdateArgs.name, "name", "", "Rename the view")
	viewsUpdateCmd.Flags().StringVar(&viewsUpdateArgs.filterType, "filter-type", "", "Combine filters with AND or OR")
	viewsUpdateCmd.Flags().BoolVar(&viewsUpdateArgs.filtersDisabled, "filters-disabled", false, "Suspend the view's filters")
	viewsCmd.AddCommand(viewsListCmd, viewsCreateCmd, viewsUpdateCmd, viewsDeleteCmd)
	filtersCmd.AddCommand(filtersListCmd, filtersAddCmd, filtersUpdateCmd, filtersRemoveCmd)
	sortsAddCmd.Flags().BoolVar(&sortsAddDescending, "desc", false, "Sort descending")
	sortsUpdateCmd.Flags().BoolVar(&sortsUpdateDescending, "desc", false, "Sort descending")
	sortsCmd.AddCommand(sortsAddCmd, sortsUpdateCmd, sortsRemoveCmd)
	rootCmd.AddCommand(viewsCmd, filtersCmd, sortsCmd)
}

func viewsListRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	tableViews, err := rt.store.ListViews(cmd.Context(), tableID)
	if err != nil {
		return err
	}
	for _, view := range tableViews {
		fmt.Printf("%d\t%s\t%s\tfilters: %s\n", view.ID, view.Name, view.Type, view.FilterMode)
	}
	return nil
}

func viewsCreateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	view, err := rt.store.CreateView(cmd.Context(), models.View{
		TableID: tableID,
		Name:    args[1],
		Type:    models.ViewTypeGrid,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created view %d\n", view.ID)
	return nil
}

func viewsUpdateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	viewID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid view id %q", args[0])
	}
	view, err := rt.store.GetView(ctx, viewID)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("name") {
		view.Name = viewsUpdateArgs.name
	}
	if cmd.Flags().Changed("filter-type") {
		mode := models.FilterMode(strings.ToUpper(viewsUpdateArgs.filterType))
		if mode != models.FilterModeAND && mode != models.FilterModeOR {
			return fmt.Errorf("invalid filter type %q, expected AND or OR", viewsUpdateArgs.filterType)
		}
		view.FilterMode = mode
	}
	if cmd.Flags().Changed("filters-disabled") {
		view.FiltersDisabled = viewsUpdateArgs.filtersDisabled
	}
	return rt.store.UpdateView(ctx, view)
}

func viewsDeleteRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	viewID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid view id %q", args[0])
	}
	return rt.store.DeleteView(cmd.Context(), viewID)
}

func filtersListRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	viewID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid view id %q", args[0])
	}
	viewFilters, err := rt.store.ListViewFilters(cmd.Context(), viewID)
	if err != nil {
		return err
	}
	for _, viewFilter := range viewFilters {
		fmt.Printf("%d\tfield_%d\t%s\t%q\n",
			viewFilter.ID, viewFilter.FieldID, viewFilter.Type, viewFilter.Value)
	}
	return nil
}

func filtersAddRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	viewID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid view id %q", args[0])
	}
	fieldID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[1])
	}
	value := ""
	if len(args) == 4 {
		value = args[3]
	}
	viewFilter, err := rt.views.CreateFilter(cmd.Context(), viewID, fieldID, args[2], value)
	if err != nil {
		return err
	}
	fmt.Printf("created filter %d\n", viewFilter.ID)
	return nil
}

func filtersUpdateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	filterID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid filter id %q", args[0])
	}
	fieldID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[1])
	}
	value := ""
	if len(args) == 4 {
		value = args[3]
	}
	_, err = rt.views.UpdateFilter(cmd.Context(), filterID, fieldID, args[2], value)
	return err
}

func filtersRemoveRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	filterID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid filter id %q", args[0])
	}
	return rt.views.DeleteFilter(cmd.Context(), filterID)
}

func sortsAddRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	viewID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid view id %q", args[0])
	}
	fieldID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[1])
	}
	order := models.SortOrderAsc
	if sortsAddDescending {
		order = models.SortOrderDesc
	}
	viewSort, err := rt.views.CreateSort(cmd.Context(), viewID, fieldID, order)
	if err != nil {
		return err
	}
	fmt.Printf("created sort %d\n", viewSort.ID)
	return nil
}

func sortsUpdateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	sortID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid sort id %q", args[0])
	}
	fieldID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[1])
	}
	order := models.SortOrderAsc
	if sortsUpdateDescending {
		order = models.SortOrderDesc
	}
	_, err = rt.views.UpdateSort(cmd.Context(), sortID, fieldID, order)
	return err
}

func sortsRemoveRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	sortID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid sort id %q", args[0])
	}
	return rt.views.DeleteSort(cmd.Context(), sortID)
}
