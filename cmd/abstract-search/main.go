// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the abstract-search CLI.
// See docs/ARCHITECTURE § Command Line, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/abstract-search/internal/logger"
	"github.com/pdiddy/abstract-search/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the abstract-search CLI.
var rootCmd = &cobra.Command{
	Use:   "abstract-search",
	Short: "Answer questions from PubMed abstracts",
	Long: `abstract-search answers a question by searching PubMed, showing the
matching abstracts, and summarizing them with a language model.

serve runs the web page and the JSON endpoints /get_abstracts and
/extract_terms. ask and terms drive the same interaction from the terminal
against a running server. history lists and exports answered questions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secretsDir, nil)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./abstract-search.yaml or ~/.config/abstract-search/abstract-search.yaml)")
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("abstract-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "abstract-search"))
		}
	}

	viper.SetEnvPrefix("ABSTRACT_SEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the server settings.
func newLogger() (*zap.Logger, error) {
	cfg := loadConfig()
	return logger.New(cfg.Server.Env, cfg.Server.LogLevel)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
