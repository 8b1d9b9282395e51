package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the meta schema",
	RunE:  migrateRunE,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func migrateRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.store.Migrate(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("meta schema up to date")
	return nil
}
