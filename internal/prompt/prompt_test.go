// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"strings"
	"testing"

	"github.com/foodnservice/article-engine/internal/schema"
	"github.com/foodnservice/article-engine/pkg/types"
)

func testContract(t *testing.T) *schema.Contract {
	t.Helper()
	s := schema.NewStore("")
	c, err := s.Load(types.StageOutline)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestComposeOutlineTemplateSelection(t *testing.T) {
	links := []string{"https://example.com/a", "https://example.com/b"}
	keywords := []string{"al dente", "mise en place"}

	tests := []struct {
		name       string
		row        types.TopicRow
		want       string
		wantAbsent []string
	}{
		{
			name:       "neither",
			row:        types.TopicRow{MainKeyword: "Quick Pasta"},
			want:       `I want you to be an expert in Food and Recipes and Generate an article outline for the topic "Quick Pasta".`,
			wantAbsent: []string{"primary source of reference", "discuss these in the article"},
		},
		{
			name:       "links only",
			row:        types.TopicRow{MainKeyword: "Quick Pasta", ReferenceLinks: links},
			want:       `use the following articles as the primary source of reference: "https://example.com/a, https://example.com/b"`,
			wantAbsent: []string{"discuss these in the article"},
		},
		{
			name:       "keywords only",
			row:        types.TopicRow{MainKeyword: "Quick Pasta", SecondaryKeywords: keywords},
			want:       `while making sure to discuss these in the article: "al dente, mise en place"`,
			wantAbsent: []string{"primary source of reference"},
		},
		{
			name: "both",
			row:  types.TopicRow{MainKeyword: "Quick Pasta", ReferenceLinks: links, SecondaryKeywords: keywords},
			want: `primary source of reference: "https://example.com/a, https://example.com/b". Make sure to discuss these in the article: "al dente, mise en place"`,
		},
	}

	contract := testContract(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeOutline(tt.row, contract)
			if err != nil {
				t.Fatalf("ComposeOutline: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("prompt missing template text %q:\n%s", tt.want, got)
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("prompt contains %q from another template:\n%s", absent, got)
				}
			}
			// Every variant carries the fixed instructions and the example.
			if !strings.Contains(got, "strictly just the outline") {
				t.Error("prompt missing outline instructions")
			}
			if !strings.Contains(got, contract.ExampleJSON()) {
				t.Error("prompt missing contract example")
			}
		})
	}
}

func TestComposeOutlineDeterministic(t *testing.T) {
	contract := testContract(t)
	row := types.TopicRow{MainKeyword: "Quick Pasta", ReferenceLinks: []string{"https://example.com"}}

	a, err := ComposeOutline(row, contract)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComposeOutline(row, contract)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("ComposeOutline is not deterministic")
	}
}

func TestComposeContent(t *testing.T) {
	s := schema.NewStore("")
	contract, err := s.Load(types.StageContent)
	if err != nil {
		t.Fatal(err)
	}

	outline := types.Outline{Sections: []types.OutlineSection{
		{Heading: "Introduction"},
		{Heading: "Choosing Pasta"},
		{Heading: "Cooking Tips"},
	}}

	got := ComposeContent("Quick Pasta", outline, contract)

	if !strings.Contains(got, "Introduction\nChoosing Pasta\nCooking Tips") {
		t.Errorf("headings not listed in order:\n%s", got)
	}
	if !strings.Contains(got, `"Quick Pasta"`) {
		t.Error("topic not referenced")
	}
	if !strings.Contains(got, contract.ExampleJSON()) {
		t.Error("contract example not appended")
	}
}

func TestComposeExcerpt(t *testing.T) {
	s := schema.NewStore("")
	contract, err := s.Load(types.StageExcerpt)
	if err != nil {
		t.Fatal(err)
	}

	sections := []types.ContentSection{
		{Heading: "Introduction", Content: "Pasta night made simple."},
	}
	got := ComposeExcerpt("Quick Pasta", sections, contract)

	if !strings.Contains(got, "## Introduction") {
		t.Error("section heading not included")
	}
	if !strings.Contains(got, "Pasta night made simple.") {
		t.Error("section body not included")
	}
	if !strings.Contains(got, contract.ExampleJSON()) {
		t.Error("contract example not appended")
	}
}

func TestImageKeyword(t *testing.T) {
	got := ImageKeyword("Quick Pasta", "Cooking Tips")
	if !strings.Contains(got, "Blog Title: Quick Pasta") {
		t.Error("title missing")
	}
	if !strings.Contains(got, "Section: Cooking Tips") {
		t.Error("section missing")
	}
	if !strings.Contains(got, "keyword phrase") {
		t.Error("task instruction missing")
	}
}
