package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const activeFilterKey = "active_filter"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS words (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		clue TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '[]',
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,
}

// VocabularyDB persists vocabulary entries and settings in SQLite.
type VocabularyDB struct {
	db *sql.DB
}

// OpenVocabularyDB opens (or creates) the database at path and applies the
// schema. ":memory:" gives a private in-memory database.
func OpenVocabularyDB(path string) (*VocabularyDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("Warning: couldn't enable WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		log.Printf("Warning: couldn't set busy timeout: %v", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return &VocabularyDB{db: db}, nil
}

// Close closes the database connection.
func (v *VocabularyDB) Close() error {
	return v.db.Close()
}

// AddWords inserts words whose ID is not yet known and returns how many were
// added.
func (v *VocabularyDB) AddWords(ctx context.Context, words []Word) (int, error) {
	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, w := range words {
		tags, err := json.Marshal(nonNil(w.Tags))
		if err != nil {
			return 0, fmt.Errorf("encode tags for %q: %w", w.ID, err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO words (id, text, clue, tags) VALUES (?, ?, ?, ?)`,
			w.ID, w.Text, w.Clue, string(tags))
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", w.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return added, nil
}

// Words returns every entry in insertion order.
func (v *VocabularyDB) Words(ctx context.Context) ([]Word, error) {
	rows, err := v.db.QueryContext(ctx, `SELECT id, text, clue, tags FROM words ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	words := []Word{}
	for rows.Next() {
		var w Word
		var tags string
		if err := rows.Scan(&w.ID, &w.Text, &w.Clue, &tags); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &w.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for %q: %w", w.ID, err)
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// UpdateClue replaces the clue of an entry.
func (v *VocabularyDB) UpdateClue(ctx context.Context, id, clue string) error {
	res, err := v.db.ExecContext(ctx, `UPDATE words SET clue = ? WHERE id = ?`, clue, id)
	if err != nil {
		return fmt.Errorf("update clue %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("word not found: %s", id)
	}
	return nil
}

// ActiveFilter returns the persisted tag filter, empty when none is set.
func (v *VocabularyDB) ActiveFilter(ctx context.Context) ([]string, error) {
	var raw string
	err := v.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, activeFilterKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read active filter: %w", err)
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, fmt.Errorf("decode active filter: %w", err)
	}
	return nonNil(tags), nil
}

// SetActiveFilter replaces the persisted tag filter.
func (v *VocabularyDB) SetActiveFilter(ctx context.Context, tags []string) error {
	raw, err := json.Marshal(nonNil(tags))
	if err != nil {
		return fmt.Errorf("encode active filter: %w", err)
	}
	_, err = v.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		activeFilterKey, string(raw))
	if err != nil {
		return fmt.Errorf("write active filter: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
