// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/abstract-search/internal/history"
	"github.com/pdiddy/abstract-search/internal/llm"
	"github.com/pdiddy/abstract-search/internal/pubmed"
	"github.com/pdiddy/abstract-search/internal/render"
	"github.com/pdiddy/abstract-search/internal/server"
	"github.com/pdiddy/abstract-search/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the search page and JSON endpoints",
	Long: `Serve starts the HTTP server. It serves the search page on /, the
JSON endpoints /get_abstracts and /extract_terms, /healthz, and Prometheus
metrics on /metrics. Answered questions are recorded in the history
database unless history.enabled is false.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().Bool("no-history", false, "do not record answered questions")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.AI.APIKey == "" && cfg.AI.BaseURL == "" {
		fmt.Fprintln(os.Stderr, "warning: no language model API key; set ai.api_key or .secrets/openai-api-key")
	}

	var recorder service.Recorder
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		recorder = store
		log.Info("recording history", zap.String("dir", cfg.History.Dir))
	}

	svc := service.New(
		pubmed.New(cfg.PubMed),
		llm.NewOpenAI(cfg.AI, log),
		recorder,
		log,
	)
	srv := server.New(cfg.Server, svc, render.New(cfg.Render), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
