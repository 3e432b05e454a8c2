// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodnservice/article-engine/internal/draft"
	"github.com/foodnservice/article-engine/internal/generate"
	"github.com/foodnservice/article-engine/internal/schema"
	"github.com/foodnservice/article-engine/internal/wordpress"
	"github.com/foodnservice/article-engine/pkg/types"
)

const (
	outlinePayload = `{"sections":[{"heading":"Introduction"},{"heading":"Choosing the Right Pasta"},{"heading":"Sauce in Minutes"}]}`
	contentPayload = `{"sections":[
		{"heading":"Introduction","content":"A fast pasta dinner starts with a hot pot of salted water."},
		{"heading":"Choosing the Right Pasta","content":"Short shapes hold chunky sauces better than long strands."},
		{"heading":"Sauce in Minutes","content":"Garlic, olive oil, and pasta water make a sauce on their own."}]}`
	excerptPayload = `{"excerpt":"A weeknight pasta you can actually pull off in twenty minutes."}`
)

// stageFake scripts one payload per stage and can exhaust a chosen stage.
type stageFake struct {
	mu        sync.Mutex
	payloads  map[types.Stage]string
	failStage types.Stage
	calls     []types.Stage
}

func newStageFake() *stageFake {
	return &stageFake{payloads: map[types.Stage]string{
		types.StageOutline: outlinePayload,
		types.StageContent: contentPayload,
		types.StageExcerpt: excerptPayload,
	}}
}

func (f *stageFake) Generate(_ context.Context, stage types.Stage, _ string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, stage)
	f.mu.Unlock()

	if stage == f.failStage {
		return nil, &generate.GenerationError{Stage: stage, Attempts: 3, Last: errors.New("no JSON value in completion output")}
	}
	return []byte(f.payloads[stage]), nil
}

func (f *stageFake) stageCalls() []types.Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Stage(nil), f.calls...)
}

// imageFake resolves an asset only for headings present in its map.
type imageFake struct {
	mu     sync.Mutex
	assets map[string]*types.ImageAsset
	errFor string
}

func (f *imageFake) Resolve(_ context.Context, _, sectionText string) (*types.ImageAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sectionText == f.errFor {
		return nil, errors.New("vendor timeout")
	}
	return f.assets[sectionText], nil
}

// memLedger is an in-memory Ledger.
type memLedger struct {
	mu      sync.Mutex
	entries map[string]int
}

func newMemLedger() *memLedger { return &memLedger{entries: make(map[string]int)} }

func (l *memLedger) Published(slug, hash string) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id, ok := l.entries[slug+"/"+hash]
	return id, ok, nil
}

func (l *memLedger) Record(slug, hash string, postID int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[slug+"/"+hash] = postID
	return nil
}

// publisherFake records created posts.
type publisherFake struct {
	mu    sync.Mutex
	posts []wordpress.Post
	err   error
}

func (p *publisherFake) CreatePost(_ context.Context, post wordpress.Post) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	p.posts = append(p.posts, post)
	return 100 + len(p.posts), nil
}

func (p *publisherFake) created() []wordpress.Post {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]wordpress.Post(nil), p.posts...)
}

type testHarness struct {
	orch      *Orchestrator
	gen       *stageFake
	publisher *publisherFake
	ledger    *memLedger
	draftsDir string
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		gen:       newStageFake(),
		publisher: &publisherFake{},
		ledger:    newMemLedger(),
		draftsDir: t.TempDir(),
	}
	h.orch = New(Config{
		Contracts: schema.NewStore(""),
		Generator: h.gen,
		Images: &imageFake{assets: map[string]*types.ImageAsset{
			"Choosing the Right Pasta": {
				RemoteURL:   "https://img.example/pasta.jpg",
				Attribution: "Photo by A. Cook",
				MediaID:     42,
				HostedURL:   "https://blog.example/wp-content/uploads/pasta.jpg",
			},
		}},
		Drafts:     draft.NewStore(h.draftsDir),
		Ledger:     h.ledger,
		Publisher:  h.publisher,
		PostStatus: "publish",
		Progress:   io.Discard,
	})
	return h
}

func TestRunPublishesArticle(t *testing.T) {
	h := newHarness(t)

	res := h.orch.Run(context.Background(), types.TopicRow{MainKeyword: "Quick Pasta"})

	require.NoError(t, res.Err)
	assert.Equal(t, StatePublished, res.State)
	assert.Equal(t, 101, res.PostID)
	assert.False(t, res.AlreadyPublished)

	posts := h.publisher.created()
	require.Len(t, posts, 1)
	assert.Equal(t, "Quick Pasta", posts[0].Title)
	assert.Equal(t, "publish", posts[0].Status)
	assert.Equal(t, 42, posts[0].FeaturedMedia, "only resolved image becomes featured media")
	assert.Contains(t, posts[0].Content, "<h2>Introduction</h2>")
	assert.Contains(t, posts[0].Content, "uploads/pasta.jpg")
	assert.Contains(t, posts[0].Excerpt, "weeknight pasta")

	// Draft landed on disk before the publish.
	body, err := os.ReadFile(filepath.Join(h.draftsDir, "quick-pasta.md"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "## Sauce in Minutes")
	assert.Equal(t, res.DraftPath, filepath.Join(h.draftsDir, "quick-pasta.md"))

	assert.Equal(t, []types.Stage{types.StageOutline, types.StageContent, types.StageExcerpt}, h.gen.stageCalls())
}

func TestRunSkipsAlreadyPublished(t *testing.T) {
	h := newHarness(t)
	row := types.TopicRow{MainKeyword: "Quick Pasta"}

	first := h.orch.Run(context.Background(), row)
	require.NoError(t, first.Err)

	second := h.orch.Run(context.Background(), row)
	require.NoError(t, second.Err)
	assert.Equal(t, StatePublished, second.State)
	assert.True(t, second.AlreadyPublished)
	assert.Equal(t, first.PostID, second.PostID)
	assert.Len(t, h.publisher.created(), 1, "re-run must not create a second post")
}

func TestRunOutlineExhaustionFails(t *testing.T) {
	h := newHarness(t)
	h.gen.failStage = types.StageOutline

	res := h.orch.Run(context.Background(), types.TopicRow{MainKeyword: "Quick Pasta"})

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, types.StageOutline, res.FailedStage)
	require.Error(t, res.Err)
	assert.Empty(t, h.publisher.created(), "failed article must not publish")
	assert.Equal(t, []types.Stage{types.StageOutline}, h.gen.stageCalls(), "later stages must not run")
}

func TestRunContentExhaustionFails(t *testing.T) {
	h := newHarness(t)
	h.gen.failStage = types.StageContent

	res := h.orch.Run(context.Background(), types.TopicRow{MainKeyword: "Quick Pasta"})

	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, types.StageContent, res.FailedStage)
	assert.Empty(t, h.publisher.created())
}

func TestRunImageFailureDoesNotFailArticle(t *testing.T) {
	h := newHarness(t)
	h.orch.cfg.Images = &imageFake{errFor: "Introduction"}

	res := h.orch.Run(context.Background(), types.TopicRow{MainKeyword: "Quick Pasta"})

	require.NoError(t, res.Err)
	assert.Equal(t, StatePublished, res.State)

	posts := h.publisher.created()
	require.Len(t, posts, 1)
	assert.Equal(t, 0, posts[0].FeaturedMedia, "no image resolved, no featured media")
	assert.NotContains(t, posts[0].Content, "<img")
}

func TestRunPublishRejectionFailsWithDraftOnDisk(t *testing.T) {
	h := newHarness(t)
	h.publisher.err = &wordpress.PublishError{StatusCode: 403, Body: "rest_cannot_create"}

	res := h.orch.Run(context.Background(), types.TopicRow{MainKeyword: "Quick Pasta"})

	assert.Equal(t, StateFailed, res.State)
	require.Error(t, res.Err)
	assert.True(t, strings.Contains(res.Err.Error(), "rest_cannot_create"))

	// The draft survives as the recovery artifact.
	_, err := os.Stat(filepath.Join(h.draftsDir, "quick-pasta.md"))
	assert.NoError(t, err)
}

func TestRunBatchKeepsInputOrder(t *testing.T) {
	h := newHarness(t)

	rows := []types.TopicRow{
		{MainKeyword: "Quick Pasta"},
		{MainKeyword: "Hearty Soup"},
		{MainKeyword: "Fresh Salads"},
	}
	results := h.orch.RunBatch(context.Background(), rows, 2)

	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, rows[i].MainKeyword, res.Topic)
		assert.Equal(t, StatePublished, res.State, "topic %q", res.Topic)
	}
	assert.Len(t, h.publisher.created(), 3)
}
