// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one topic row through every stage: outline,
// content, image resolution, excerpt, assembly, draft persistence, and
// publishing. Generation failures are terminal for the article; image
// failures never are.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/foodnservice/article-engine/internal/assemble"
	"github.com/foodnservice/article-engine/internal/draft"
	"github.com/foodnservice/article-engine/internal/generate"
	"github.com/foodnservice/article-engine/internal/ledger"
	"github.com/foodnservice/article-engine/internal/prompt"
	"github.com/foodnservice/article-engine/internal/schema"
	"github.com/foodnservice/article-engine/internal/wordpress"
	"github.com/foodnservice/article-engine/pkg/types"
)

// StageGenerator produces validated stage payloads.
type StageGenerator interface {
	Generate(ctx context.Context, stage types.Stage, promptText string) ([]byte, error)
}

// ImageResolver finds and uploads an illustration for one section.
// (nil, nil) means the section goes without an image.
type ImageResolver interface {
	Resolve(ctx context.Context, topic, sectionText string) (*types.ImageAsset, error)
}

// DraftWriter persists an assembled article before publishing.
type DraftWriter interface {
	Save(article types.Article) (string, error)
}

// Ledger answers whether an article was already published and records
// new publishes.
type Ledger interface {
	Published(slug, hash string) (int, bool, error)
	Record(slug, hash string, postID int) error
}

// Publisher creates the final post at the publishing backend.
type Publisher interface {
	CreatePost(ctx context.Context, post wordpress.Post) (int, error)
}

// Config collects the orchestrator's collaborators.
type Config struct {
	Contracts  *schema.Store
	Generator  StageGenerator
	Images     ImageResolver
	Drafts     DraftWriter
	Ledger     Ledger
	Publisher  Publisher
	PostStatus string
	Progress   io.Writer
}

// Orchestrator runs topic rows through the full pipeline.
type Orchestrator struct {
	cfg Config
}

// New returns an Orchestrator. An empty post status defaults to "draft"
// so a misconfigured run cannot publish live posts by accident.
func New(cfg Config) *Orchestrator {
	if cfg.PostStatus == "" {
		cfg.PostStatus = "draft"
	}
	if cfg.Progress == nil {
		cfg.Progress = io.Discard
	}
	return &Orchestrator{cfg: cfg}
}

// Run drives one topic row to a terminal state. The returned Result is
// never an error value by itself: a failed article is reported through
// Result.State and Result.Err so batch runs keep going.
func (o *Orchestrator) Run(ctx context.Context, row types.TopicRow) Result {
	res := Result{Topic: row.MainKeyword, State: StatePending}

	outline, err := o.generateOutline(ctx, row)
	if err != nil {
		return o.failed(res, err)
	}
	res.State = StateOutlineReady

	sections, err := o.generateContent(ctx, row.MainKeyword, outline)
	if err != nil {
		return o.failed(res, err)
	}
	res.State = StateContentReady

	assets := o.resolveImages(ctx, row.MainKeyword, sections)

	excerpt, err := o.generateExcerpt(ctx, row.MainKeyword, sections)
	if err != nil {
		return o.failed(res, err)
	}
	res.State = StateExcerptReady

	article, err := assemble.Assemble(outline, sections, assets, excerpt, row.MainKeyword)
	if err != nil {
		return o.failed(res, fmt.Errorf("assembling article: %w", err))
	}
	res.State = StateAssembled

	draftPath, err := o.cfg.Drafts.Save(article)
	if err != nil {
		return o.failed(res, fmt.Errorf("saving draft: %w", err))
	}
	res.DraftPath = draftPath

	slug := draft.Slug(article.Title)
	hash := ledger.ContentHash(article)

	if postID, done, err := o.cfg.Ledger.Published(slug, hash); err != nil {
		return o.failed(res, fmt.Errorf("checking publish ledger: %w", err))
	} else if done {
		fmt.Fprintf(o.cfg.Progress, "%s: already published as post %d, skipping\n", row.MainKeyword, postID)
		res.State = StatePublished
		res.PostID = postID
		res.AlreadyPublished = true
		return res
	}

	postID, err := o.publish(ctx, article)
	if err != nil {
		return o.failed(res, err)
	}
	res.State = StatePublished
	res.PostID = postID

	if err := o.cfg.Ledger.Record(slug, hash, postID); err != nil {
		// The post is live; a ledger write failure only risks a duplicate
		// on the next run.
		fmt.Fprintf(o.cfg.Progress, "warning: recording publish for %q: %v\n", row.MainKeyword, err)
	}
	return res
}

// RunBatch runs rows through a fixed-size worker pool and returns one
// Result per row, in input order.
func (o *Orchestrator) RunBatch(ctx context.Context, rows []types.TopicRow, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(rows))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = o.Run(ctx, rows[idx])
			}
		}()
	}

	for i := range rows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func (o *Orchestrator) generateOutline(ctx context.Context, row types.TopicRow) (types.Outline, error) {
	contract, err := o.cfg.Contracts.Load(types.StageOutline)
	if err != nil {
		return types.Outline{}, err
	}
	promptText, err := prompt.ComposeOutline(row, contract)
	if err != nil {
		return types.Outline{}, err
	}
	raw, err := o.cfg.Generator.Generate(ctx, types.StageOutline, promptText)
	if err != nil {
		return types.Outline{}, err
	}
	return generate.DecodeOutline(raw)
}

func (o *Orchestrator) generateContent(ctx context.Context, topic string, outline types.Outline) ([]types.ContentSection, error) {
	contract, err := o.cfg.Contracts.Load(types.StageContent)
	if err != nil {
		return nil, err
	}
	raw, err := o.cfg.Generator.Generate(ctx, types.StageContent, prompt.ComposeContent(topic, outline, contract))
	if err != nil {
		return nil, err
	}
	payload, err := generate.DecodeContent(raw)
	if err != nil {
		return nil, err
	}
	return payload.Sections, nil
}

func (o *Orchestrator) generateExcerpt(ctx context.Context, topic string, sections []types.ContentSection) (string, error) {
	contract, err := o.cfg.Contracts.Load(types.StageExcerpt)
	if err != nil {
		return "", err
	}
	raw, err := o.cfg.Generator.Generate(ctx, types.StageExcerpt, prompt.ComposeExcerpt(topic, sections, contract))
	if err != nil {
		return "", err
	}
	payload, err := generate.DecodeExcerpt(raw)
	if err != nil {
		return "", err
	}
	return payload.Excerpt, nil
}

// resolveImages resolves section illustrations concurrently. A failed
// resolution leaves a nil slot; the article proceeds without that image.
func (o *Orchestrator) resolveImages(ctx context.Context, topic string, sections []types.ContentSection) []*types.ImageAsset {
	assets := make([]*types.ImageAsset, len(sections))

	var wg sync.WaitGroup
	for i, sec := range sections {
		wg.Add(1)
		go func(i int, sec types.ContentSection) {
			defer wg.Done()
			asset, err := o.cfg.Images.Resolve(ctx, topic, sec.Heading)
			if err != nil {
				fmt.Fprintf(o.cfg.Progress, "warning: image resolution for %q: %v\n", sec.Heading, err)
				return
			}
			assets[i] = asset
		}(i, sec)
	}
	wg.Wait()

	return assets
}

func (o *Orchestrator) publish(ctx context.Context, article types.Article) (int, error) {
	html, err := assemble.RenderHTML(article)
	if err != nil {
		return 0, err
	}
	return o.cfg.Publisher.CreatePost(ctx, wordpress.Post{
		Title:         article.Title,
		Content:       html,
		Excerpt:       article.Excerpt,
		Status:        o.cfg.PostStatus,
		FeaturedMedia: article.FeaturedMediaID,
	})
}

func (o *Orchestrator) failed(res Result, err error) Result {
	res.State = StateFailed
	res.Err = err
	if stage, ok := generate.IsGenerationError(err); ok {
		res.FailedStage = stage
	}
	fmt.Fprintf(o.cfg.Progress, "%s: failed: %v\n", res.Topic, err)
	return res
}
