// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/abstract-search/internal/client"
	"github.com/pdiddy/abstract-search/internal/orchestrator"
	"github.com/pdiddy/abstract-search/internal/terminal"
)

var termsCmd = &cobra.Command{
	Use:   "terms <question>",
	Short: "Extract PubMed search terms from a question",
	Long: `Terms sends a question to a running server's /extract_terms endpoint and
prints the extracted search terms separated by spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTerms,
}

func init() {
	addEndpointFlag(termsCmd)

	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	cfg.Client.Endpoint = endpointFlag(cmd, cfg.Client.Endpoint)

	screen := terminal.New(nil)
	o := orchestrator.New(client.New(cfg.Client), screen.Elements())
	o.OnExtractClick(context.Background(), strings.Join(args, " "))

	terms := screen.SearchTerms()
	fmt.Fprintln(cmd.OutOrStdout(), terms)
	if terms == orchestrator.TextExtractError {
		return fmt.Errorf("term extraction failed against %s", cfg.Client.Endpoint)
	}
	return nil
}

func addEndpointFlag(cmd *cobra.Command) {
	cmd.Flags().String("endpoint", "", "server base URL (default client.endpoint, http://localhost:8080)")
}

func endpointFlag(cmd *cobra.Command, fallback string) string {
	if v, _ := cmd.Flags().GetString("endpoint"); v != "" {
		return v
	}
	return fallback
}
