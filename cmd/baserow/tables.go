package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zarybnicky/baserow/internal/models"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage tables",
}

var tablesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tables",
	RunE:  tablesListRunE,
}

var tablesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a table with a primary Name field and a grid view",
	Args:  cobra.ExactArgs(1),
	RunE:  tablesCreateRunE,
}

var tablesRenameCmd = &cobra.Command{
	Use:   "rename <table-id> <name>",
	Short: "Rename a table",
	Args:  cobra.ExactArgs(2),
	RunE:  tablesRenameRunE,
}

var tablesDeleteCmd = &cobra.Command{
	Use:   "delete <table-id>",
	Short: "Delete a table and all of its rows",
	Args:  cobra.ExactArgs(1),
	RunE:  tablesDeleteRunE,
}

func init() {
	tablesCmd.AddCommand(tablesListCmd, tablesCreateCmd, tablesRenameCmd, tablesDeleteCmd)
	rootCmd.AddCommand(tablesCmd)
}

func tablesListRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	tables, err := rt.store.ListTables(cmd.Context())
	if err != nil {
		return err
	}
	for _, table := range tables {
		fmt.Printf("%d\t%s\n", table.ID, table.Name)
	}
	return nil
}

func tablesCreateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	table, err := rt.store.CreateTable(ctx, args[0])
	if err != nil {
		return err
	}
	_, err = rt.store.CreateField(ctx, table, models.Field{
		Name:    "Name",
		Type:    models.FieldTypeText,
		Primary: true,
	})
	if err != nil {
		return err
	}
	_, err = rt.store.CreateView(ctx, models.View{
		TableID: table.ID,
		Name:    "Grid",
		Type:    models.ViewTypeGrid,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created table %d (%s)\n", table.ID, table.DatabaseTableName())
	return nil
}

func tablesRenameRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	return rt.store.RenameTable(cmd.Context(), id, args[1])
}

func tablesDeleteRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	return rt.store.DeleteTable(cmd.Context(), id)
}
