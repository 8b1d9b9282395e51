package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zarybnicky/baserow/internal/history"
)

var historyArgs struct {
	search string
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently executed row queries",
	Args:  cobra.NoArgs,
	RunE:  historyRunE,
}

func init() {
	historyCmd.Flags().StringVar(&historyArgs.search, "search", "", "Match queries containing this text")
	historyCmd.Flags().IntVar(&historyArgs.limit, "limit", 20, "Maximum entries to show")
	rootCmd.AddCommand(historyCmd)
}

func historyRunE(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.history == nil {
		return fmt.Errorf("query history is disabled")
	}

	var entries []history.Entry
	if historyArgs.search != "" {
		entries, err = rt.history.Search(historyArgs.search, historyArgs.limit)
	} else {
		entries, err = rt.history.GetRecent(historyArgs.limit)
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		status := "ok"
		if !entry.Success {
			status = "failed"
		}
		fmt.Printf("%s  table=%d  rows=%d  %s  %s\n",
			entry.ExecutedAt.Format("2006-01-02 15:04:05"), entry.TableID,
			entry.RowCount, entry.Duration, status)
		fmt.Printf("  %s\n", entry.Query)
		if entry.ErrorMessage != "" {
			fmt.Printf("  error: %s\n", entry.ErrorMessage)
		}
	}
	return nil
}
