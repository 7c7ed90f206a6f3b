// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/archive"
	"github.com/pdiddy/paper-digest/internal/digest"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <pdf|pages.yaml>",
	Short: "Summarize a paper into page-aligned sentences",
	Long: `Summarize ranks every sentence of the document, keeps the most central
ones that fit the word budget in reading order, and tags each with its source
page. The input is a PDF or a page file written by extract.

With --llm the extractive summary is also rewritten by a hosted model; the
rewrite is split into sentences and aligned to pages as well. A failed rewrite
is reported but never fails the command.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	maxWords := appConfig.Summarize.MaxWords
	if cmd.Flags().Changed("max-words") {
		maxWords, _ = cmd.Flags().GetInt("max-words")
	}
	if maxWords < 0 {
		return fmt.Errorf("--max-words must be >= 0")
	}
	llm, _ := cmd.Flags().GetBool("llm")
	model, _ := cmd.Flags().GetString("model")
	tokenLimit, _ := cmd.Flags().GetInt("token-limit")
	if tokenLimit == 0 {
		tokenLimit = appConfig.Abstractive.TokenLimit
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("archive")

	pages, err := loadPages(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var gen digest.Generator
	if llm {
		if gen, err = newGenerator(appConfig.Abstractive); err != nil {
			return err
		}
	}

	svc := digest.NewService(appConfig.Summarize, gen)
	d, err := svc.Summarize(cmd.Context(), pages, digest.Request{
		MaxWords:    maxWords,
		Abstractive: llm,
		Model:       model,
		TokenLimit:  tokenLimit,
	})
	if err != nil {
		return err
	}

	if save {
		store, err := archive.Open(appConfig.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(cmd.Context(), filepath.Base(args[0]), d)
		if err != nil {
			return err
		}
		cmd.PrintErrf("archived: %s\n", id)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), d)
	}
	printDigest(cmd.OutOrStdout(), d)
	return nil
}

func init() {
	summarizeCmd.Flags().Int("max-words", 500, "word budget for the summary")
	summarizeCmd.Flags().Bool("llm", false, "also produce an abstractive rewrite with a hosted model")
	summarizeCmd.Flags().String("model", "", "chat model for --llm (default from config)")
	summarizeCmd.Flags().Int("token-limit", 0, "completion token limit for --llm (0 = config default)")
	summarizeCmd.Flags().Bool("json", false, "output the digest as JSON")
	summarizeCmd.Flags().Bool("archive", false, "store the digest in the archive")

	rootCmd.AddCommand(summarizeCmd)
}
