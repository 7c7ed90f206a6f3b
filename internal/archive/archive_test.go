// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var transformerDigest = types.Digest{
	Summary: []types.SummaryItem{
		{Text: "Attention replaces recurrence.", Page: 1, Score: 0.4},
		{Text: "Training takes twelve hours.", Page: 3, Score: 0.2},
	},
	Stats: types.Stats{NumPages: 3, NumSentences: 2, MaxWords: 50},
	Diagnostics: &types.RankDiagnostics{
		Sentences: 6, Iterations: 9, Converged: true, WordsUsed: 7,
	},
	LLMSummary:   "The model uses attention (p. 1).",
	LLMSentences: []types.SummaryItem{{Text: "The model uses attention (p. 1).", Page: 1, Score: 0.3}},
}

var graphDigest = types.Digest{
	Summary: []types.SummaryItem{
		{Text: "Graph ranking finds central sentences.", Page: 2, Score: 0.5},
	},
	Stats: types.Stats{NumPages: 2, NumSentences: 1, MaxWords: 20},
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	s, err := Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, filepath.Join(dir, dbFile))
	assert.Equal(t, defaultMaxResults, s.maxResults)
	assert.Equal(t, dir, s.Dir())

	// Reopening an existing archive keeps the schema.
	s2, err := Open(types.ArchiveConfig{Dir: dir})
	require.NoError(t, err)
	s2.Close()
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "attention.pdf", transformerDigest)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "attention.pdf", rec.Source)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, transformerDigest, rec.Digest)
}

func TestSaveWithoutDiagnostics(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	empty := types.Digest{Summary: []types.SummaryItem{}, Stats: types.Stats{MaxWords: 500}}
	id, err := s.Save(ctx, "blank.pdf", empty)
	require.NoError(t, err)

	rec, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, empty, rec.Digest)
	assert.Nil(t, rec.Digest.Diagnostics)
}

func TestGetNotFound(t *testing.T) {
	_, err := testStore(t).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id1, err := s.Save(ctx, "attention.pdf", transformerDigest)
	require.NoError(t, err)
	id2, err := s.Save(ctx, "graph.pdf", graphDigest)
	require.NoError(t, err)

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, id2, entries[0].ID)
	assert.Equal(t, 1, entries[0].NumSentences)
	assert.Equal(t, id1, entries[1].ID)

	require.NoError(t, s.Delete(ctx, id1))
	_, err = s.Get(ctx, id1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, id1), ErrNotFound)

	hits, err := s.Search(ctx, QueryOptions{Query: "attention"})
	require.NoError(t, err)
	assert.Empty(t, hits, "deleted items leave the full-text index")
}

func TestSearch(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id1, err := s.Save(ctx, "attention.pdf", transformerDigest)
	require.NoError(t, err)
	id2, err := s.Save(ctx, "graph.pdf", graphDigest)
	require.NoError(t, err)

	tests := []struct {
		name  string
		opts  QueryOptions
		want  []string
		check func(t *testing.T, hits []Hit)
	}{
		{
			name: "full text",
			opts: QueryOptions{Query: "attention"},
			want: []string{"Attention replaces recurrence.", "The model uses attention (p. 1)."},
		},
		{
			name: "full text extractive only",
			opts: QueryOptions{Query: "attention", Kind: KindExtractive},
			want: []string{"Attention replaces recurrence."},
		},
		{
			name: "no query orders by score",
			opts: QueryOptions{},
			want: []string{
				"Graph ranking finds central sentences.",
				"Attention replaces recurrence.",
				"The model uses attention (p. 1).",
				"Training takes twelve hours.",
			},
		},
		{
			name: "digest filter",
			opts: QueryOptions{DigestID: id2},
			want: []string{"Graph ranking finds central sentences."},
			check: func(t *testing.T, hits []Hit) {
				assert.Equal(t, "graph.pdf", hits[0].Source)
				assert.Equal(t, KindExtractive, hits[0].Kind)
				assert.Equal(t, 2, hits[0].Page)
			},
		},
		{
			name: "page filter",
			opts: QueryOptions{DigestID: id1, Page: 3},
			want: []string{"Training takes twelve hours."},
			check: func(t *testing.T, hits []Hit) {
				assert.Equal(t, 1, hits[0].Position)
			},
		},
		{
			name: "max results",
			opts: QueryOptions{MaxResults: 1},
			want: []string{"Graph ranking finds central sentences."},
		},
		{
			name: "no match",
			opts: QueryOptions{Query: "convolution"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Search(ctx, tt.opts)
			require.NoError(t, err)
			var got []string
			for _, h := range hits {
				got = append(got, h.Text)
			}
			assert.Equal(t, tt.want, got)
			if tt.check != nil {
				tt.check(t, hits)
			}
		})
	}
}

func TestExport(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, "attention.pdf", transformerDigest)
	require.NoError(t, err)

	yamlPath, err := s.ExportYAML(ctx, QueryOptions{Kind: KindExtractive}, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.yaml"), yamlPath)

	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []Hit
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 2)
	assert.Equal(t, "Attention replaces recurrence.", fromYAML[0].Text)

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	got, err := s.ExportJSON(ctx, QueryOptions{Query: "twelve"}, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, jsonPath, got)

	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []Hit
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	require.Len(t, fromJSON, 1)
	assert.Equal(t, 3, fromJSON[0].Page)

	emptyPath, err := s.ExportJSON(ctx, QueryOptions{Query: "absent"}, filepath.Join(t.TempDir(), "empty.json"))
	require.NoError(t, err)
	data, err = os.ReadFile(emptyPath)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
