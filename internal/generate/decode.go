// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/foodnservice/article-engine/pkg/types"
)

// DecodeOutline converts validated outline-stage JSON into the domain type.
func DecodeOutline(raw []byte) (types.Outline, error) {
	var outline types.Outline
	if err := json.Unmarshal(raw, &outline); err != nil {
		return types.Outline{}, fmt.Errorf("decoding outline payload: %w", err)
	}
	return outline, nil
}

// DecodeContent converts validated content-stage JSON into the domain type.
func DecodeContent(raw []byte) (types.ContentPayload, error) {
	var payload types.ContentPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return types.ContentPayload{}, fmt.Errorf("decoding content payload: %w", err)
	}
	return payload, nil
}

// DecodeExcerpt converts validated excerpt-stage JSON into the domain type.
func DecodeExcerpt(raw []byte) (types.ExcerptPayload, error) {
	var payload types.ExcerptPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return types.ExcerptPayload{}, fmt.Errorf("decoding excerpt payload: %w", err)
	}
	return payload, nil
}

// firstJSONValue extracts the first complete JSON object or array from
// model output. Models wrap payloads in prose or markdown fences often
// enough that decoding the raw response directly would waste attempts.
// Returns "" when no JSON value is present.
func firstJSONValue(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return ""
	}

	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start, end := -1, -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start < 0 || end <= start {
		return ""
	}

	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return ""
	}
	return candidate
}

// firstLine returns the first non-empty line of s, trimmed of whitespace
// and surrounding quotes.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line != "" {
			return line
		}
	}
	return ""
}
