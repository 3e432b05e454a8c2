// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// FieldType is the expected JSON type for a field rule.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldArray  FieldType = "array"
)

// FieldRule describes one required or optional field in a stage payload.
// Paths use gjson syntax; a `#` segment applies the rule to every element
// of the enclosing array (e.g. "sections.#.heading").
type FieldRule struct {
	Path     string    `json:"path"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`

	// MinItems is the minimum element count for array fields.
	MinItems int `json:"min_items,omitempty"`
}

// Contract is one stage's output contract: the example payload rendered
// into prompts and the field rules applied to model output.
type Contract struct {
	Example json.RawMessage
	Fields  []FieldRule
}

// ExampleJSON returns the example payload as indented JSON, suitable for
// embedding in a prompt. The rendering is deterministic for a given
// contract file.
func (c *Contract) ExampleJSON() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, c.Example, "", "  "); err != nil {
		return string(c.Example)
	}
	return buf.String()
}

// Validate checks a decoded JSON document against the contract's field
// rules. It returns the first violation found; a nil error means the
// payload matches the contract.
func (c *Contract) Validate(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("payload is not valid JSON")
	}

	for _, rule := range c.Fields {
		if err := checkRule(raw, rule); err != nil {
			return err
		}
	}
	return nil
}

func checkRule(raw []byte, rule FieldRule) error {
	// Per-element rules: gjson returns the matched values as an array.
	if i := strings.Index(rule.Path, "#."); i >= 0 {
		parent := strings.TrimSuffix(rule.Path[:i], ".")
		parentRes := gjson.GetBytes(raw, parent)
		if !parentRes.IsArray() {
			if rule.Required {
				return fmt.Errorf("field %q: parent %q is not an array", rule.Path, parent)
			}
			return nil
		}

		want := len(parentRes.Array())
		matched := gjson.GetBytes(raw, rule.Path).Array()
		if rule.Required && len(matched) != want {
			return fmt.Errorf("field %q: present in %d of %d elements", rule.Path, len(matched), want)
		}
		for _, v := range matched {
			if err := checkType(rule, v); err != nil {
				return err
			}
		}
		return nil
	}

	res := gjson.GetBytes(raw, rule.Path)
	if !res.Exists() {
		if rule.Required {
			return fmt.Errorf("missing required field %q", rule.Path)
		}
		return nil
	}
	return checkType(rule, res)
}

func checkType(rule FieldRule, v gjson.Result) error {
	switch rule.Type {
	case FieldString:
		if v.Type != gjson.String {
			return fmt.Errorf("field %q: expected string, got %s", rule.Path, v.Type)
		}
		if rule.Required && strings.TrimSpace(v.String()) == "" {
			return fmt.Errorf("field %q: required string is empty", rule.Path)
		}
	case FieldNumber:
		if v.Type != gjson.Number {
			return fmt.Errorf("field %q: expected number, got %s", rule.Path, v.Type)
		}
	case FieldArray:
		if !v.IsArray() {
			return fmt.Errorf("field %q: expected array", rule.Path)
		}
		if n := len(v.Array()); n < rule.MinItems {
			return fmt.Errorf("field %q: %d elements, need at least %d", rule.Path, n, rule.MinItems)
		}
	}
	return nil
}
