// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the econsearch CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/econsearch/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the econsearch CLI.
var rootCmd = &cobra.Command{
	Use:   "econsearch",
	Short: "Keyword-driven paper QA over local PDFs",
	Long: `econsearch builds a searchable index of economics and finance papers from
a directory of PDFs. It extracts bibliographic metadata, ranks papers
against free-text queries, and answers questions with citations using a
chat model over the best-matching papers.

Each stage is a subcommand: ingest, search, ask, serve, and export.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional and feeds the environment before viper reads it.
		godotenv.Load()

		s, err := secrets.Load(".secrets/")
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./econsearch.yaml or ~/.config/econsearch/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("econsearch")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "econsearch"))
		}
	}

	viper.SetEnvPrefix("ECONSEARCH")
	viper.AutomaticEnv()

	viper.SetDefault("index_path", "storage/paper_index.json")
	viper.SetDefault("fts_path", "")
	viper.SetDefault("pdf_dir", "papers")
	viper.SetDefault("top_k", 5)
	viper.SetDefault("ai.provider", "shubiaobiao")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// indexPathFromFlags resolves the index path: flag first, then config.
func indexPathFromFlags(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("index"); p != "" {
		return p
	}
	return viper.GetString("index_path")
}

func ftsPathFromFlags(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("fts-path"); p != "" {
		return p
	}
	return viper.GetString("fts_path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
