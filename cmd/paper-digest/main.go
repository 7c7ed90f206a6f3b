// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-digest CLI.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/config"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// appConfig holds the configuration resolved before every command runs.
var appConfig types.Config

var rootCmd = &cobra.Command{
	Use:   "paper-digest",
	Short: "Extractive, page-aligned summaries of research papers",
	Long: `paper-digest summarizes PDF papers by ranking their sentences with
TextRank over TF-IDF similarity, selecting the most central sentences within a
word budget, and tagging every summary sentence with the page it came from.

Each stage is a subcommand: extract turns PDFs into page files, summarize and
align work on a PDF or a page file, serve exposes the same pipeline over HTTP,
and archive searches digests stored by earlier runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(".env"); err != nil {
			return err
		}

		secrets, err := config.LoadSecrets(config.SecretsDir)
		if err != nil {
			return err
		}
		if len(secrets) > 0 {
			keys := make([]string, 0, len(secrets))
			for k := range secrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		cfgFile, _ := cmd.Flags().GetString("config")
		used, err := config.ReadFile(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		if used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}

		appConfig, err = config.Load(viper.GetViper(), secrets)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-digest.yaml or ~/.config/paper-digest/paper-digest.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
