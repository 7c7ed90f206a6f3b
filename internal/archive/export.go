// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes the hits matching opts to path, or to export.yaml in the
// archive directory when path is empty. It returns the path written.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, path string) (string, error) {
	hits, err := s.exportHits(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(hits)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport(path, "export.yaml", data)
}

// ExportJSON writes the hits matching opts to path, or to export.json in the
// archive directory when path is empty. It returns the path written.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, path string) (string, error) {
	hits, err := s.exportHits(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport(path, "export.json", data)
}

func (s *Store) exportHits(ctx context.Context, opts QueryOptions) ([]Hit, error) {
	opts.MaxResults = exportLimit
	hits, err := s.Search(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if hits == nil {
		hits = []Hit{}
	}
	return hits, nil
}

func (s *Store) writeExport(path, defaultName string, data []byte) (string, error) {
	if path == "" {
		path = filepath.Join(s.dir, defaultName)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
