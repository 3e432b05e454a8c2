// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns free-text model completions into validated stage
// payloads. Model output is unreliable: every attempt is decoded and
// checked against the stage's schema contract, and both "not JSON" and
// "wrong shape" consume one attempt from a bounded retry budget.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/foodnservice/article-engine/internal/schema"
	"github.com/foodnservice/article-engine/pkg/types"
)

// Completer abstracts the text-completion capability so tests can supply
// a scripted fake.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports a stage whose retry budget is exhausted. The
// orchestrator turns it into a terminal failure for the article.
type GenerationError struct {
	Stage    types.Stage
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for stage %q after %d attempts: %v", e.Stage, e.Attempts, e.Last)
}

func (e *GenerationError) Unwrap() error { return e.Last }

// IsGenerationError reports whether err wraps a GenerationError and, if
// so, returns the failed stage.
func IsGenerationError(err error) (types.Stage, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Stage, true
	}
	return "", false
}

// jitterBase bounds the random delay between attempts, so concurrent
// workers do not hammer a rate-limited backend in lockstep. Tests override
// this to avoid real sleeps.
var jitterBase = 500 * time.Millisecond

// Generator invokes the completion capability and validates its output
// against per-stage schema contracts.
type Generator struct {
	completer   Completer
	contracts   *schema.Store
	maxAttempts int
	w           io.Writer
}

// NewGenerator returns a Generator with the given retry budget per stage
// invocation. A budget below 1 defaults to 3.
func NewGenerator(completer Completer, contracts *schema.Store, maxAttempts int, w io.Writer) *Generator {
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Generator{
		completer:   completer,
		contracts:   contracts,
		maxAttempts: maxAttempts,
		w:           w,
	}
}

// Generate runs one stage invocation: complete, decode, validate, and
// retry with the same prompt until the payload matches the stage contract
// or the budget is exhausted. On success it returns the validated raw JSON.
//
// A missing contract is a configuration error and is returned immediately,
// never retried.
func (g *Generator) Generate(ctx context.Context, stage types.Stage, promptText string) ([]byte, error) {
	contract, err := g.contracts.Load(stage)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(rand.Int63n(int64(jitterBase) + 1))):
			}
		}

		raw, err := g.completer.Complete(ctx, promptText)
		if err != nil {
			lastErr = fmt.Errorf("completion call: %w", err)
			fmt.Fprintf(g.w, "warning: stage %s attempt %d/%d: %v\n", stage, attempt, g.maxAttempts, lastErr)
			continue
		}

		payload := firstJSONValue(raw)
		if payload == "" {
			lastErr = fmt.Errorf("no JSON value in completion output")
			fmt.Fprintf(g.w, "warning: stage %s attempt %d/%d: %v\n", stage, attempt, g.maxAttempts, lastErr)
			continue
		}

		if err := contract.Validate([]byte(payload)); err != nil {
			lastErr = fmt.Errorf("contract validation: %w", err)
			fmt.Fprintf(g.w, "warning: stage %s attempt %d/%d: %v\n", stage, attempt, g.maxAttempts, lastErr)
			continue
		}

		return []byte(payload), nil
	}

	return nil, &GenerationError{Stage: stage, Attempts: g.maxAttempts, Last: lastErr}
}

// Keyword runs one free-text completion with no schema validation, used to
// derive image search phrases. The trimmed first line of the response is
// returned so a chatty model cannot smuggle extra prose into a query.
func (g *Generator) Keyword(ctx context.Context, promptText string) (string, error) {
	raw, err := g.completer.Complete(ctx, promptText)
	if err != nil {
		return "", fmt.Errorf("keyword completion: %w", err)
	}
	return firstLine(raw), nil
}
