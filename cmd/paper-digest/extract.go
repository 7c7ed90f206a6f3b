// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/ingest"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdfs...]",
	Short: "Extract PDF pages into page files",
	Long: `Extract reads the text of every page of each PDF, splits it into
sentences, and writes one YAML page file per document to the pages directory.
Documents whose page file already exists are skipped. With --dir, every PDF in
that directory is processed.

Backends: pdf (in-process, default) and pdftotext (container image run with
docker or podman).`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := appConfig.Ingest
	if cmd.Flags().Changed("backend") {
		backend, _ := cmd.Flags().GetString("backend")
		cfg.Backend = types.IngestBackend(backend)
	}
	if cmd.Flags().Changed("pages-dir") {
		cfg.PagesDir, _ = cmd.Flags().GetString("pages-dir")
	}

	paths := args
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		found, err := listPDFs(dir)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDFs given: pass file paths or --dir")
	}

	e, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	result := ingest.ExtractBatch(cmd.Context(), e, paths, cfg.PagesDir, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", result.Failed)
	}
	return nil
}

// listPDFs returns the .pdf files directly inside dir, sorted by name.
func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func init() {
	extractCmd.Flags().String("backend", "pdf", "extraction backend: pdf or pdftotext")
	extractCmd.Flags().String("pages-dir", "pages", "directory for page files")
	extractCmd.Flags().String("dir", "", "process every PDF in this directory")

	rootCmd.AddCommand(extractCmd)
}
