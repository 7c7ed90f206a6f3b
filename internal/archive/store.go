// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists finished digests in SQLite with a full-text index
// over their summary sentences.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	dbFile            = "digests.db"
	defaultMaxResults = 20

	// timeFormat has fixed-width fractions so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Kind tells extractive summary items from sentences of the abstractive
// rewrite.
type Kind string

const (
	KindExtractive  Kind = "extractive"
	KindAbstractive Kind = "abstractive"
)

// ErrNotFound is returned when a digest ID is not in the archive.
var ErrNotFound = errors.New("digest not found")

// Store manages the archive database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// Record is an archived digest.
type Record struct {
	ID        string       `json:"id" yaml:"id"`
	Source    string       `json:"source" yaml:"source"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	Digest    types.Digest `json:"digest" yaml:"digest"`
}

// Entry is the listing form of a Record.
type Entry struct {
	ID           string    `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	NumPages     int       `json:"num_pages" yaml:"num_pages"`
	NumSentences int       `json:"num_sentences" yaml:"num_sentences"`
}

// Open opens or creates the archive database at cfg.Dir/digests.db and
// creates the schema if it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the archive directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS digests (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			num_pages INTEGER NOT NULL,
			num_sentences INTEGER NOT NULL,
			max_words INTEGER NOT NULL,
			iterations INTEGER,
			converged INTEGER,
			fallback INTEGER,
			ranked_sentences INTEGER,
			words_used INTEGER,
			llm_summary TEXT,
			llm_error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			digest_id TEXT NOT NULL REFERENCES digests(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			body TEXT NOT NULL,
			page INTEGER NOT NULL,
			score REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_digest_id ON items(digest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_page ON items(page)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS4 external-content index kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='items_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE items_fts USING fts4(content="items", body)`,
		`CREATE TRIGGER items_bd BEFORE DELETE ON items BEGIN
			DELETE FROM items_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER items_bu BEFORE UPDATE ON items BEGIN
			DELETE FROM items_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(docid, body) VALUES (new.rowid, new.body);
		END`,
		`CREATE TRIGGER items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(docid, body) VALUES (new.rowid, new.body);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Save stores d under a new ID and returns the ID. source names the
// summarized document, typically its file name.
func (s *Store) Save(ctx context.Context, source string, d types.Digest) (string, error) {
	id := uuid.NewString()
	created := time.Now().UTC().Format(timeFormat)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var iterations, ranked, wordsUsed sql.NullInt64
	var converged, fallback sql.NullBool
	if diag := d.Diagnostics; diag != nil {
		iterations = sql.NullInt64{Int64: int64(diag.Iterations), Valid: true}
		ranked = sql.NullInt64{Int64: int64(diag.Sentences), Valid: true}
		wordsUsed = sql.NullInt64{Int64: int64(diag.WordsUsed), Valid: true}
		converged = sql.NullBool{Bool: diag.Converged, Valid: true}
		fallback = sql.NullBool{Bool: diag.Fallback, Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO digests (id, source, created_at, num_pages, num_sentences, max_words,
			iterations, converged, fallback, ranked_sentences, words_used, llm_summary, llm_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, source, created, d.Stats.NumPages, d.Stats.NumSentences, d.Stats.MaxWords,
		iterations, converged, fallback, ranked, wordsUsed, d.LLMSummary, d.LLMError,
	)
	if err != nil {
		return "", fmt.Errorf("inserting digest: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (digest_id, kind, position, body, page, score) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	insert := func(kind Kind, items []types.SummaryItem) error {
		for i, it := range items {
			if _, err := stmt.ExecContext(ctx, id, string(kind), i, it.Text, it.Page, it.Score); err != nil {
				return fmt.Errorf("inserting %s item %d: %w", kind, i, err)
			}
		}
		return nil
	}
	if err := insert(KindExtractive, d.Summary); err != nil {
		return "", err
	}
	if err := insert(KindAbstractive, d.LLMSentences); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing digest: %w", err)
	}
	return id, nil
}

// Get loads the digest stored under id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var (
		rec                       Record
		created                   string
		iterations, ranked, words sql.NullInt64
		converged, fallback       sql.NullBool
		llmSummary, llmError      sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, created_at, num_pages, num_sentences, max_words,
			iterations, converged, fallback, ranked_sentences, words_used, llm_summary, llm_error
		 FROM digests WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Source, &created,
		&rec.Digest.Stats.NumPages, &rec.Digest.Stats.NumSentences, &rec.Digest.Stats.MaxWords,
		&iterations, &converged, &fallback, &ranked, &words, &llmSummary, &llmError)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("looking up digest: %w", err)
	}

	rec.CreatedAt, _ = time.Parse(timeFormat, created)
	rec.Digest.LLMSummary = llmSummary.String
	rec.Digest.LLMError = llmError.String
	if iterations.Valid {
		rec.Digest.Diagnostics = &types.RankDiagnostics{
			Sentences:  int(ranked.Int64),
			Iterations: int(iterations.Int64),
			Converged:  converged.Bool,
			Fallback:   fallback.Bool,
			WordsUsed:  int(words.Int64),
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, body, page, score FROM items WHERE digest_id = ? ORDER BY kind, position`, id)
	if err != nil {
		return Record{}, fmt.Errorf("loading items: %w", err)
	}
	defer rows.Close()

	rec.Digest.Summary = []types.SummaryItem{}
	for rows.Next() {
		var kind string
		var it types.SummaryItem
		if err := rows.Scan(&kind, &it.Text, &it.Page, &it.Score); err != nil {
			return Record{}, fmt.Errorf("scanning item: %w", err)
		}
		if Kind(kind) == KindAbstractive {
			rec.Digest.LLMSentences = append(rec.Digest.LLMSentences, it)
		} else {
			rec.Digest.Summary = append(rec.Digest.Summary, it)
		}
	}
	return rec, rows.Err()
}

// List returns archived digests, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, created_at, num_pages, num_sentences FROM digests ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing digests: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Source, &created, &e.NumPages, &e.NumSentences); err != nil {
			return nil, fmt.Errorf("scanning digest: %w", err)
		}
		e.CreatedAt, _ = time.Parse(timeFormat, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes a digest and its items.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE digest_id = ?`, id); err != nil {
		return fmt.Errorf("deleting items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM digests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting digest: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}
