// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the domain entities and configuration structs shared
// across pipeline stages.
package types

// Stage identifies one structured generation phase. Each stage has a schema
// contract file named <stage>.json and a prompt template of the same name.
type Stage string

const (
	StageOutline Stage = "outline"
	StageContent Stage = "content"
	StageExcerpt Stage = "excerpt"
)

// OutlineSection is one heading in a generated outline. Section order is
// the publication order and is preserved through the whole pipeline.
type OutlineSection struct {
	// Heading is the H2 heading text.
	Heading string `json:"heading" yaml:"heading"`
}

// Outline is the validated outline payload for one article. Immutable once
// validated.
type Outline struct {
	Sections []OutlineSection `json:"sections" yaml:"sections"`
}

// ContentSection is one generated body section. Sections correspond to
// outline sections by position, not by heading text: headings may be
// cleaned after generation, so position is the only reliable join key.
type ContentSection struct {
	Heading string `json:"heading" yaml:"heading"`
	Content string `json:"content" yaml:"content"`
}

// ContentPayload is the validated content-stage payload.
type ContentPayload struct {
	Sections []ContentSection `json:"sections" yaml:"sections"`
}

// ExcerptPayload is the validated excerpt-stage payload.
type ExcerptPayload struct {
	Excerpt string `json:"excerpt" yaml:"excerpt"`
}

// ImageAsset is an illustration sourced from a vendor and hosted by the
// publishing backend. MediaID and HostedURL are filled in by the media
// upload; RemoteURL and Attribution come from the vendor.
type ImageAsset struct {
	// RemoteURL is the direct image URL at the vendor.
	RemoteURL string `json:"remote_url" yaml:"remote_url"`

	// Attribution credits the photographer and the vendor.
	Attribution string `json:"attribution" yaml:"attribution"`

	// MediaID is the publishing backend's media identifier.
	MediaID int `json:"media_id,omitempty" yaml:"media_id,omitempty"`

	// HostedURL is the backend-hosted copy of the image.
	HostedURL string `json:"hosted_url,omitempty" yaml:"hosted_url,omitempty"`
}

// SectionBody is one assembled body block: cleaned section text plus the
// image resolved for it, if any.
type SectionBody struct {
	Heading string      `json:"heading" yaml:"heading"`
	Body    string      `json:"body" yaml:"body"`
	Image   *ImageAsset `json:"image,omitempty" yaml:"image,omitempty"`
}

// Article is the assembled, publishable document. Built once per topic and
// immutable after assembly; a failed publish is retried from the same
// Article without regenerating anything.
type Article struct {
	// Title is the article title (the topic's main keyword).
	Title string `json:"title" yaml:"title"`

	// Excerpt is the short teaser used by the publishing backend.
	Excerpt string `json:"excerpt" yaml:"excerpt"`

	// Sections lists the body blocks in publication order.
	Sections []SectionBody `json:"sections" yaml:"sections"`

	// Content is the full markdown body joined from Sections.
	Content string `json:"content" yaml:"content"`

	// FeaturedMediaID is the media ID of the first resolved image, or 0
	// when no section has an image.
	FeaturedMediaID int `json:"featured_media_id,omitempty" yaml:"featured_media_id,omitempty"`
}

// TopicRow is one input row: the topic to write about plus optional
// reference links and secondary keywords that steer the outline prompt.
type TopicRow struct {
	MainKeyword       string   `json:"main_keyword" yaml:"main_keyword"`
	ReferenceLinks    []string `json:"reference_links,omitempty" yaml:"reference_links,omitempty"`
	SecondaryKeywords []string `json:"secondary_keywords,omitempty" yaml:"secondary_keywords,omitempty"`
}
