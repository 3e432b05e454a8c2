// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records which articles have been published. The publish
// endpoint is not idempotent: re-running a batch would create duplicate
// posts for topics that already went out. The ledger is checked before
// every publish and a topic whose assembled content hash is already
// recorded is skipped.
package ledger

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/foodnservice/article-engine/pkg/types"
)

const dbFile = "publish.db"

// Store manages the publish ledger SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at dir/publish.db and
// bootstraps the schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS published (
		topic_slug TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		post_id INTEGER NOT NULL,
		published_at TEXT NOT NULL,
		PRIMARY KEY (topic_slug, content_hash)
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Published reports whether an article with this slug and content hash has
// already been published, returning the recorded post ID when it has.
func (s *Store) Published(slug, hash string) (int, bool, error) {
	var postID int
	err := s.db.QueryRow(
		`SELECT post_id FROM published WHERE topic_slug = ? AND content_hash = ?`,
		slug, hash,
	).Scan(&postID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying ledger: %w", err)
	}
	return postID, true, nil
}

// Record stores a successful publish.
func (s *Store) Record(slug, hash string, postID int) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO published (topic_slug, content_hash, post_id, published_at) VALUES (?, ?, ?, ?)`,
		slug, hash, postID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording publish: %w", err)
	}
	return nil
}

// ContentHash returns the dedup key for an assembled article. Assembly is
// deterministic, so an unchanged topic re-run hashes to the same value.
// The SHA-256 digest is truncated to 16 hex chars (64 bits): the key only
// deduplicates within one slug, so collision resistance at that scale is
// ample and the ledger rows stay readable.
func ContentHash(article types.Article) string {
	h := sha256.New()
	h.Write([]byte(article.Title))
	h.Write([]byte{0})
	h.Write([]byte(article.Excerpt))
	h.Write([]byte{0})
	h.Write([]byte(article.Content))
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
