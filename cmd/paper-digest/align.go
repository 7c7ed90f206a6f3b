// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var alignCmd = &cobra.Command{
	Use:   "align --summary <file> <pdf|pages.yaml>",
	Short: "Tag the sentences of an existing summary with source pages",
	Long: `Align reads a summary, splits it into sentences, and assigns each
sentence the page of the document it is most similar to. The summary file is
plain text, or a JSON array of {"text","page","score"} items when it ends in
.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlign,
}

func runAlign(cmd *cobra.Command, args []string) error {
	summaryPath, _ := cmd.Flags().GetString("summary")
	if summaryPath == "" {
		return fmt.Errorf("--summary is required")
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	items, err := readSummaryItems(summaryPath)
	if err != nil {
		return err
	}
	pages, err := loadPages(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	aligned := digest.Align(items, pages)
	if jsonOutput {
		if aligned == nil {
			aligned = []types.SummaryItem{}
		}
		return writeJSON(cmd.OutOrStdout(), map[string]any{"summary": aligned})
	}
	printItems(cmd.OutOrStdout(), aligned)
	return nil
}

// readSummaryItems loads summary items from a JSON item list or a plain
// text file.
func readSummaryItems(path string) ([]types.SummaryItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary %s: %w", path, err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		var items []types.SummaryItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing summary %s: %w", path, err)
		}
		return items, nil
	}
	return digest.SentenceItems(digest.SplitSentences(string(data))), nil
}

func init() {
	alignCmd.Flags().String("summary", "", "summary file (plain text or JSON items)")
	alignCmd.Flags().Bool("json", false, "output aligned items as JSON")

	rootCmd.AddCommand(alignCmd)
}
