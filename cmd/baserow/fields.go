package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zarybnicky/baserow/internal/models"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Manage table fields",
}

var fieldsListCmd = &cobra.Command{
	Use:   "list <table-id>",
	Short: "List a table's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  fieldsListRunE,
}

var fieldsConfigJSON string

var fieldsCreateCmd = &cobra.Command{
	Use:   "create <table-id> <name> <type>",
	Short: "Add a field to a table",
	Args:  cobra.ExactArgs(3),
	RunE:  fieldsCreateRunE,
}

var fieldsRenameCmd = &cobra.Command{
	Use:   "rename <field-id> <name>",
	Short: "Rename a field",
	Args:  cobra.ExactArgs(2),
	RunE:  fieldsRenameRunE,
}

var fieldsSetTypeCmd = &cobra.Command{
	Use:   "set-type <field-id> <type>",
	Short: "Change a field's type, dropping filters and sorts that no longer apply",
	Args:  cobra.ExactArgs(2),
	RunE:  fieldsSetTypeRunE,
}

var fieldsDeleteCmd = &cobra.Command{
	Use:   "delete <field-id>",
	Short: "Delete a field and its values",
	Args:  cobra.ExactArgs(1),
	RunE:  fieldsDeleteRunE,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Manage single select options",
}

var optionsColor string

var optionsListCmd = &cobra.Command{
	Use:   "list <field-id>",
	Short: "List a field's select options",
	Args:  cobra.ExactArgs(1),
	RunE:  optionsListRunE,
}

var optionsAddCmd = &cobra.Command{
	Use:   "add <field-id> <value>",
	Short: "Add a select option",
	Args:  cobra.ExactArgs(2),
	RunE:  optionsAddRunE,
}

var optionsUpdateCmd = &cobra.Command{
	Use:   "update <option-id> <value>",
	Short: "Change a select option's value or color",
	Args:  cobra.ExactArgs(2),
	RunE:  optionsUpdateRunE,
}

var optionsRemoveCmd = &cobra.Command{
	Use:   "remove <option-id>",
	Short: "Delete a select option",
	Args:  cobra.ExactArgs(1),
	RunE:  optionsRemoveRunE,
}

func init() {
	fieldsCreateCmd.Flags().StringVar(&fieldsConfigJSON, "config", "", "Type settings as JSON, e.g. '{\"number_type\":\"DECIMAL\"}'")
	fieldsSetTypeCmd.Flags().StringVar(&fieldsConfigJSON, "config", "", "Type settings as JSON for the new type")
	fieldsCmd.AddCommand(fieldsListCmd, fieldsCreateCmd, fieldsRenameCmd, fieldsSetTypeCmd, fieldsDeleteCmd)
	optionsAddCmd.Flags().StringVar(&optionsColor, "color", "blue", "Display color")
	optionsUpdateCmd.Flags().StringVar(&optionsColor, "color", "", "Display color")
	optionsCmd.AddCommand(optionsListCmd, optionsAddCmd, optionsUpdateCmd, optionsRemoveCmd)
	rootCmd.AddCommand(fieldsCmd, optionsCmd)
}

func parseFieldConfig() (models.FieldConfig, error) {
	var config models.FieldConfig
	if fieldsConfigJSON == "" {
		return config, nil
	}
	if err := json.Unmarshal([]byte(fieldsConfigJSON), &config); err != nil {
		return config, fmt.Errorf("invalid field config: %w", err)
	}
	return config, nil
}

func fieldsListRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	tableFields, err := rt.store.ListFields(cmd.Context(), tableID)
	if err != nil {
		return err
	}
	for _, field := range tableFields {
		marker := ""
		if field.Primary {
			marker = "\tprimary"
		}
		fmt.Printf("%d\t%s\t%s%s\n", field.ID, field.Name, field.Type, marker)
	}
	return nil
}

func fieldsCreateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	tableID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid table id %q", args[0])
	}
	config, err := parseFieldConfig()
	if err != nil {
		return err
	}
	table, err := rt.store.GetTable(ctx, tableID)
	if err != nil {
		return err
	}
	field, err := rt.store.CreateField(ctx, table, models.Field{
		Name:   args[1],
		Type:   args[2],
		Config: config,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created field %d (%s)\n", field.ID, field.ColumnName())
	return nil
}

func fieldsRenameRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	fieldID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[0])
	}
	field, err := rt.store.GetField(ctx, fieldID)
	if err != nil {
		return err
	}
	field.Name = args[1]
	return rt.store.UpdateField(ctx, field)
}

func fieldsSetTypeRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	fieldID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[0])
	}
	config, err := parseFieldConfig()
	if err != nil {
		return err
	}
	field, err := rt.store.GetField(ctx, fieldID)
	if err != nil {
		return err
	}
	field, err = rt.store.ChangeFieldType(ctx, field, args[1], config)
	if err != nil {
		return err
	}
	return rt.views.FieldUpdated(ctx, field)
}

func fieldsDeleteRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	fieldID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[0])
	}
	return rt.store.DeleteField(cmd.Context(), fieldID)
}

func optionsListRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	fieldID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[0])
	}
	options, err := rt.store.ListSelectOptions(cmd.Context(), fieldID)
	if err != nil {
		return err
	}
	for _, option := range options {
		fmt.Printf("%d\t%s\t%s\n", option.ID, option.Value, option.Color)
	}
	return nil
}

func optionsAddRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	fieldID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid field id %q", args[0])
	}
	option, err := rt.store.CreateSelectOption(cmd.Context(), fieldID, args[1], optionsColor)
	if err != nil {
		return err
	}
	fmt.Printf("created option %d\n", option.ID)
	return nil
}

func optionsUpdateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()
	ctx := cmd.Context()

	optionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid option id %q", args[0])
	}
	option, err := rt.store.GetSelectOption(ctx, optionID)
	if err != nil {
		return err
	}
	option.Value = args[1]
	if cmd.Flags().Changed("color") {
		option.Color = optionsColor
	}
	return rt.store.UpdateSelectOption(ctx, option)
}

func optionsRemoveRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	optionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid option id %q", args[0])
	}
	return rt.store.DeleteSelectOption(cmd.Context(), optionID)
}
