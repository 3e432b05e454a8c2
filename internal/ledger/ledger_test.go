// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"testing"

	"github.com/foodnservice/article-engine/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndPublished(t *testing.T) {
	s := openTestStore(t)

	_, found, err := s.Published("quick-pasta", "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("empty ledger reported a publish")
	}

	if err := s.Record("quick-pasta", "abc123", 101); err != nil {
		t.Fatal(err)
	}

	postID, found, err := s.Published("quick-pasta", "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if !found || postID != 101 {
		t.Errorf("Published = (%d, %v), want (101, true)", postID, found)
	}

	// Same topic with different content is a new publish.
	_, found, err = s.Published("quick-pasta", "def456")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Error("different content hash should not match")
	}
}

func TestContentHashStable(t *testing.T) {
	a := types.Article{Title: "Quick Pasta", Excerpt: "t", Content: "body"}
	b := types.Article{Title: "Quick Pasta", Excerpt: "t", Content: "body"}
	if ContentHash(a) != ContentHash(b) {
		t.Error("identical articles hash differently")
	}

	c := types.Article{Title: "Quick Pasta", Excerpt: "t", Content: "other body"}
	if ContentHash(a) == ContentHash(c) {
		t.Error("different content hashes collide")
	}
}
