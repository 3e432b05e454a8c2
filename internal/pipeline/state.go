// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/foodnservice/article-engine/pkg/types"

// State tracks how far one article made it through the pipeline.
type State string

const (
	StatePending      State = "pending"
	StateOutlineReady State = "outline_ready"
	StateContentReady State = "content_ready"
	StateExcerptReady State = "excerpt_ready"
	StateAssembled    State = "assembled"
	StatePublished    State = "published"
	StateFailed       State = "failed"
)

// Result summarizes one topic's run.
type Result struct {
	Topic string
	State State

	// FailedStage names the generation stage whose retry budget was
	// exhausted, when that is what failed.
	FailedStage types.Stage

	// PostID is set once the article is published (or was found already
	// published in the ledger).
	PostID int

	// AlreadyPublished marks a topic skipped by the ledger check.
	AlreadyPublished bool

	// DraftPath is the markdown draft on disk, set from the assembled
	// state onward.
	DraftPath string

	Err error
}
