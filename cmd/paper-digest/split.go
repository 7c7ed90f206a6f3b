// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/digest"
)

var splitCmd = &cobra.Command{
	Use:   "split [file]",
	Short: "Split text into sentences",
	Long: `Split prints the sentences of a text file, or of standard input when no
file is given, one per line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	sentences := digest.SplitSentences(string(data))
	if jsonOutput {
		if sentences == nil {
			sentences = []string{}
		}
		return writeJSON(cmd.OutOrStdout(), map[string]any{"sentences": sentences})
	}
	for _, s := range sentences {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}

func init() {
	splitCmd.Flags().Bool("json", false, "output sentences as JSON")

	rootCmd.AddCommand(splitCmd)
}
