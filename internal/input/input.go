// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package input loads topic rows from a CSV file. Each row is one article:
// a main keyword plus optional comma-delimited reference links and
// secondary keywords.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/foodnservice/article-engine/pkg/types"
)

// Expected CSV header columns. Matching is case-insensitive.
const (
	colMainKeyword       = "main keyword"
	colReferenceLinks    = "reference links"
	colSecondaryKeywords = "secondary keywords"
)

// LoadRows reads topic rows from a CSV file. The file must have a header
// row naming at least the "Main Keyword" column; rows with an empty main
// keyword are skipped.
func LoadRows(path string) ([]types.TopicRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	return parseRows(f)
}

func parseRows(r io.Reader) ([]types.TopicRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	keywordCol, ok := cols[colMainKeyword]
	if !ok {
		return nil, fmt.Errorf("CSV header has no %q column", colMainKeyword)
	}

	var rows []types.TopicRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}

		row := types.TopicRow{MainKeyword: strings.TrimSpace(field(record, keywordCol))}
		if row.MainKeyword == "" {
			continue
		}
		if i, ok := cols[colReferenceLinks]; ok {
			row.ReferenceLinks = splitList(field(record, i))
		}
		if i, ok := cols[colSecondaryKeywords]; ok {
			row.SecondaryKeywords = splitList(field(record, i))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}

// splitList splits a comma-delimited cell into trimmed, non-empty entries.
func splitList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
