// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abstract-search/internal/history"
	"github.com/pdiddy/abstract-search/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and export answered questions",
	Long: `History reads the SQLite database of answered questions that serve
records in history.dir.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent answered questions",
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all answered questions as YAML",
	RunE:  runHistoryExport,
}

func init() {
	historyListCmd.Flags().Int("limit", 0, "maximum number of entries (default history.max_results)")
	historyListCmd.Flags().String("contains", "", "only entries whose question or search terms contain this text")
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")

	historyExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() (*history.Store, error) {
	return history.Open(loadConfig().History)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	contains, _ := cmd.Flags().GetString("contains")
	entries, err := store.List(context.Background(), history.QueryOptions{Contains: contains, MaxResults: limit})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatHistory(w io.Writer, entries []types.HistoryEntry, jsonOutput bool) error {
	if jsonOutput {
		if entries == nil {
			entries = []types.HistoryEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No history.")
		return nil
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-50s  %s\n", "ID", "When", "Question", "Articles")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		question := e.Question
		if len(question) > 50 {
			question = question[:47] + "..."
		}
		fmt.Fprintf(w, "%-5d  %-20s  %-50s  %d\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), question, e.ArticleCount)
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		return store.ExportYAML(context.Background(), cmd.OutOrStdout())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := store.ExportYAML(context.Background(), f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported to %s\n", out)
	return nil
}
