// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schema loads per-stage output contracts: an example payload the
// model is shown in-context, plus the field rules the model's output is
// validated against before conversion to domain types.
package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/foodnservice/article-engine/pkg/types"
)

//go:embed contracts/*.json
var defaultContracts embed.FS

// ErrContractNotFound indicates no contract file exists for a stage. This
// is a missing deployment artifact, fatal for the whole run, never retried.
var ErrContractNotFound = errors.New("schema contract not found")

// Store loads and caches schema contracts. Contracts are read-only after
// loading; Load is safe for concurrent use.
type Store struct {
	// dir is the contracts directory; empty means the embedded defaults.
	dir string

	mu    sync.Mutex
	cache map[types.Stage]*Contract
}

// NewStore returns a Store reading contracts from dir, or from the embedded
// defaults when dir is empty.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: make(map[types.Stage]*Contract),
	}
}

// Load returns the contract for a stage, reading <stage>.json on first use
// and caching it for the process lifetime.
func (s *Store) Load(stage types.Stage) (*Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[stage]; ok {
		return c, nil
	}

	data, err := s.readContract(stage)
	if err != nil {
		return nil, err
	}

	c, err := parseContract(data)
	if err != nil {
		return nil, fmt.Errorf("parsing contract for stage %q: %w", stage, err)
	}

	s.cache[stage] = c
	return c, nil
}

func (s *Store) readContract(stage types.Stage) ([]byte, error) {
	name := string(stage) + ".json"

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("stage %q in %s: %w", stage, s.dir, ErrContractNotFound)
			}
			return nil, fmt.Errorf("reading contract for stage %q: %w", stage, err)
		}
		return data, nil
	}

	data, err := defaultContracts.ReadFile("contracts/" + name)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", stage, ErrContractNotFound)
	}
	return data, nil
}

// contractFile is the on-disk shape of a contract.
type contractFile struct {
	Example json.RawMessage `json:"example"`
	Fields  []FieldRule     `json:"fields"`
}

func parseContract(data []byte) (*Contract, error) {
	var cf contractFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if len(cf.Example) == 0 {
		return nil, fmt.Errorf("contract has no example payload")
	}
	if len(cf.Fields) == 0 {
		return nil, fmt.Errorf("contract has no field rules")
	}
	for i, f := range cf.Fields {
		if f.Path == "" {
			return nil, fmt.Errorf("field rule %d has no path", i)
		}
		switch f.Type {
		case FieldString, FieldNumber, FieldArray:
		default:
			return nil, fmt.Errorf("field rule %q has unknown type %q", f.Path, f.Type)
		}
	}
	return &Contract{Example: cf.Example, Fields: cf.Fields}, nil
}
