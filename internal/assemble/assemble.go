// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble combines validated fragments into one publishable
// article. Assembly is pure: identical inputs produce byte-identical
// output, so a failed publish can be retried from the same article
// without regenerating anything.
package assemble

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/foodnservice/article-engine/pkg/types"
)

// Assemble joins content sections with their resolved images by position
// and builds the final article. Sections and images must both line up with
// the outline: a count mismatch means a partially-validated payload
// slipped through and assembly refuses to proceed.
//
// The first resolved image in document order becomes the featured image.
func Assemble(outline types.Outline, sections []types.ContentSection, assets []*types.ImageAsset, excerpt, topic string) (types.Article, error) {
	if len(sections) != len(outline.Sections) {
		return types.Article{}, fmt.Errorf("section count mismatch: outline has %d, content has %d", len(outline.Sections), len(sections))
	}
	if len(assets) != len(sections) {
		return types.Article{}, fmt.Errorf("image slot count mismatch: %d sections, %d image slots", len(sections), len(assets))
	}

	article := types.Article{
		Title:   topic,
		Excerpt: CleanText(excerpt),
	}

	var body strings.Builder
	for i, sec := range sections {
		block := types.SectionBody{
			Heading: CleanText(sec.Heading),
			Body:    CleanText(sec.Content),
			Image:   assets[i],
		}
		article.Sections = append(article.Sections, block)

		if i > 0 {
			body.WriteString("\n\n")
		}
		fmt.Fprintf(&body, "## %s\n\n%s", block.Heading, block.Body)

		if asset := assets[i]; asset != nil {
			fmt.Fprintf(&body, "\n\n![%s](%s)\n*%s*", block.Heading, asset.HostedURL, asset.Attribution)
			if article.FeaturedMediaID == 0 {
				article.FeaturedMediaID = asset.MediaID
			}
		}
	}

	article.Content = body.String()
	return article, nil
}

// RenderHTML converts the article's markdown body to HTML for the
// publishing backend.
func RenderHTML(article types.Article) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(article.Content), &buf); err != nil {
		return "", fmt.Errorf("rendering article HTML: %w", err)
	}
	return buf.String(), nil
}
