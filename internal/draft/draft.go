// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft persists assembled articles to disk before publishing.
// The draft is the recovery artifact when a publish is rejected: the
// content survives on disk and can be resubmitted without regeneration.
package draft

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"go.yaml.in/yaml/v3"

	"github.com/foodnservice/article-engine/pkg/types"
)

// Meta is the YAML sidecar written next to each draft's markdown body.
type Meta struct {
	Title           string   `yaml:"title"`
	Excerpt         string   `yaml:"excerpt"`
	Headings        []string `yaml:"headings"`
	FeaturedMediaID int      `yaml:"featured_media_id,omitempty"`
}

// Store writes drafts into a single directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the article body to <slug>.md and its metadata to
// <slug>.meta.yaml, creating the directory if needed. It returns the
// markdown path. Saving the same article twice overwrites the previous
// draft with identical bytes.
func (s *Store) Save(article types.Article) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating drafts directory: %w", err)
	}

	slug := Slug(article.Title)
	mdPath := filepath.Join(s.dir, slug+".md")

	if err := os.WriteFile(mdPath, []byte(article.Content), 0o644); err != nil {
		return "", fmt.Errorf("writing draft %s: %w", mdPath, err)
	}

	meta := Meta{
		Title:           article.Title,
		Excerpt:         article.Excerpt,
		FeaturedMediaID: article.FeaturedMediaID,
	}
	for _, sec := range article.Sections {
		meta.Headings = append(meta.Headings, sec.Heading)
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshaling draft metadata: %w", err)
	}
	metaPath := filepath.Join(s.dir, slug+".meta.yaml")
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing draft metadata %s: %w", metaPath, err)
	}

	return mdPath, nil
}

// Slug converts a title to a filesystem-safe name: alphanumerics kept,
// runs of anything else collapsed to single hyphens, lowercased.
func Slug(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
