// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/pdiddy/abstract-search/internal/client"
	"github.com/pdiddy/abstract-search/internal/orchestrator"
	"github.com/pdiddy/abstract-search/internal/render"
	"github.com/pdiddy/abstract-search/internal/terminal"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question and print the abstracts and summary",
	Long: `Ask sends a question to a running server's /get_abstracts endpoint and
prints the matching abstracts followed by the summary. Without a question
argument or --question, ask prompts for one and offers to extract search
terms first.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("question", "", "question to ask")
	askCmd.Flags().String("search-terms", "", "PubMed search terms (default: rewritten from the question)")
	askCmd.Flags().Bool("extract", false, "extract search terms from the question before searching")
	addEndpointFlag(askCmd)

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question, _ := cmd.Flags().GetString("question")
	if question == "" {
		question = strings.Join(args, " ")
	}
	searchTerms, _ := cmd.Flags().GetString("search-terms")
	extract, _ := cmd.Flags().GetBool("extract")

	interactive := question == ""
	if interactive {
		if err := survey.AskOne(&survey.Input{Message: "Question:"}, &question, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		if searchTerms == "" && !extract {
			if err := survey.AskOne(&survey.Confirm{Message: "Extract search terms first?", Default: true}, &extract); err != nil {
				return err
			}
		}
	}

	cfg := loadConfig()
	cfg.Client.Endpoint = endpointFlag(cmd, cfg.Client.Endpoint)

	screen := terminal.New(os.Stderr)
	o := orchestrator.New(client.New(cfg.Client), screen.Elements(),
		orchestrator.WithRenderer(render.New(cfg.Render)))
	ctx := context.Background()

	if extract && searchTerms == "" {
		o.ExtractTerms(ctx, question)
		searchTerms = screen.SearchTerms()
		fmt.Fprintf(os.Stderr, "Search terms: %s\n", searchTerms)
		if interactive {
			prompt := &survey.Input{Message: "Search terms:", Default: searchTerms}
			if err := survey.AskOne(prompt, &searchTerms); err != nil {
				return err
			}
		}
		if searchTerms == orchestrator.TextExtractError || searchTerms == orchestrator.TextNoTerms {
			searchTerms = ""
		}
	}

	o.SubmitSearch(ctx, question, searchTerms)
	if err := screen.Print(cmd.OutOrStdout()); err != nil {
		return err
	}
	if screen.AbstractsText() == orchestrator.TextFetchError {
		return fmt.Errorf("fetching abstracts from %s failed", cfg.Client.Endpoint)
	}
	return nil
}
