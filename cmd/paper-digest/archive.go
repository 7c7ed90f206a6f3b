// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-digest/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse and search archived digests",
	Long: `Archive manages the local SQLite archive of digests stored by
summarize --archive or by the server. Summary sentences are full-text indexed.`,
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived digests, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(store *archive.Store) error {
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "Archive is empty.")
				return nil
			}
			fmt.Fprintf(w, "%-36s  %-20s  %5s  %9s  %s\n", "ID", "Created", "Pages", "Sentences", "Source")
			fmt.Fprintln(w, strings.Repeat("-", 100))
			for _, e := range entries {
				fmt.Fprintf(w, "%-36s  %-20s  %5d  %9d  %s\n",
					e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.NumPages, e.NumSentences, e.Source)
			}
			return nil
		})
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(store *archive.Store) error {
			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n\n", rec.ID, rec.Source, rec.CreatedAt.Format("2006-01-02 15:04:05"))
			printDigest(cmd.OutOrStdout(), rec.Digest)
			return nil
		})
	},
}

var archiveSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over archived summary sentences",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := archiveQueryFromFlags(cmd, args)
		if opts.Query == "" && opts.DigestID == "" && opts.Page == 0 && opts.Kind == "" {
			return fmt.Errorf("query or filter required: provide a search query, --digest, --page, or --kind")
		}
		return withArchive(func(store *archive.Store) error {
			hits, err := store.Search(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), hits)
			}
			printHits(cmd.OutOrStdout(), hits)
			return nil
		})
	},
}

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived sentences to YAML or JSON",
	Long: `Export writes archived summary sentences (or a filtered subset) to
export.yaml or export.json in the archive directory, or to --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		opts := archiveQueryFromFlags(cmd, args)

		return withArchive(func(store *archive.Store) error {
			var (
				path string
				err  error
			)
			switch format {
			case "yaml", "":
				path, err = store.ExportYAML(cmd.Context(), opts, output)
			case "json":
				path, err = store.ExportJSON(cmd.Context(), opts, output)
			default:
				return fmt.Errorf("unsupported format %q: use yaml or json", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		})
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a digest from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(func(store *archive.Store) error {
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", args[0])
			return nil
		})
	},
}

// withArchive opens the configured archive for the duration of fn.
func withArchive(fn func(*archive.Store) error) error {
	cfg := appConfig.Archive
	if archiveDir != "" {
		cfg.Dir = archiveDir
	}
	store, err := archive.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// archiveDir overrides the configured archive directory when set.
var archiveDir string

func archiveQueryFromFlags(cmd *cobra.Command, args []string) archive.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	digestID, _ := cmd.Flags().GetString("digest")
	page, _ := cmd.Flags().GetInt("page")
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")

	return archive.QueryOptions{
		Query:      queryText,
		DigestID:   digestID,
		Page:       page,
		Kind:       archive.Kind(kind),
		MaxResults: limit,
	}
}

func printHits(w io.Writer, hits []archive.Hit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	fmt.Fprintf(w, "%-4s  %-11s  %-60s  %-4s  %s\n", "Rank", "Kind", "Sentence", "Page", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, h := range hits {
		text := h.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-11s  %-60s  %-4d  %s\n", i+1, h.Kind, text, h.Page, h.Source)
	}
	fmt.Fprintf(w, "\n%d results\n", len(hits))
}

func init() {
	archiveCmd.PersistentFlags().StringVar(&archiveDir, "archive-dir", "", "archive directory (default from config)")

	for _, c := range []*cobra.Command{archiveListCmd, archiveShowCmd, archiveSearchCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}

	for _, c := range []*cobra.Command{archiveSearchCmd, archiveExportCmd} {
		c.Flags().String("query", "", "full-text search query")
		c.Flags().String("digest", "", "filter by digest ID")
		c.Flags().Int("page", 0, "filter by source page")
		c.Flags().String("kind", "", "filter by kind: extractive or abstractive")
		c.Flags().Int("limit", 0, "maximum results (0 = use default)")
	}
	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("output", "", "output path (default: <archive-dir>/export.<format>)")

	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveSearchCmd, archiveExportCmd, archiveDeleteCmd)
	rootCmd.AddCommand(archiveCmd)
}
