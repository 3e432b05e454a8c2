// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"regexp"
	"strings"
)

// blankRuns matches three or more consecutive newlines (two or more blank
// lines), which get collapsed to a single blank line.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// artifacts lists mis-encoded punctuation sequences that model output
// picks up from scraped source text: UTF-8 punctuation read back as
// Windows-1252 (an em dash becomes "â€”", curly quotes and
// en dashes corrupt the same way). The bare two-byte pair is listed last
// because it prefixes the longer sequences and the Replacer picks the
// earliest listed match at each position.
var artifacts = strings.NewReplacer(
	"â€”", "",
	"â€“", "-",
	"â€œ", `"`,
	"â€™", "'",
	"â€˜", "'",
	"â€", `"`,
)

// CleanText normalizes generated text before it is embedded in the output
// document: strips known mis-encoded punctuation, collapses runs of blank
// lines, and trims surrounding whitespace.
func CleanText(text string) string {
	text = artifacts.Replace(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
