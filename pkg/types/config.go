package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "article-engine/0.1"). Wikimedia rejects requests without one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GenerationConfig holds settings for the structured generation stages.
type GenerationConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the completion API endpoint (e.g. a local gateway).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxAttempts is the retry budget per stage invocation: how many
	// completion attempts are made before the stage is declared failed
	// (default 3). Decode and validation failures each consume one attempt.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// ContractsDir is the directory holding schema contract files
	// (<stage>.json). Empty means the embedded defaults.
	ContractsDir string `json:"contracts_dir,omitempty" yaml:"contracts_dir,omitempty"`
}

// ImageConfig holds settings for the image resolution chain.
type ImageConfig struct {
	HTTPConfig `yaml:",inline"`

	// VendorOrder lists vendor names in query priority order. The chain
	// stops at the first vendor returning a usable result. Default:
	// pexels, unsplash, pixabay, freepik, wikimedia.
	VendorOrder []string `json:"vendor_order" yaml:"vendor_order"`

	// PexelsAPIKey authenticates against the Pexels API.
	PexelsAPIKey string `json:"pexels_api_key,omitempty" yaml:"pexels_api_key,omitempty"`

	// UnsplashAccessKey authenticates against the Unsplash API.
	UnsplashAccessKey string `json:"unsplash_access_key,omitempty" yaml:"unsplash_access_key,omitempty"`

	// PixabayAPIKey authenticates against the Pixabay API.
	PixabayAPIKey string `json:"pixabay_api_key,omitempty" yaml:"pixabay_api_key,omitempty"`

	// FreepikAPIKey authenticates against the Freepik API.
	FreepikAPIKey string `json:"freepik_api_key,omitempty" yaml:"freepik_api_key,omitempty"`
}

// WordPressConfig holds settings for the publishing backend.
type WordPressConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the site root (e.g. "https://example.com"); the REST
	// prefix /wp-json/wp/v2 is appended by the client.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Username is the WordPress account name.
	Username string `json:"username" yaml:"username"`

	// AppPassword is the WordPress application password.
	AppPassword string `json:"app_password,omitempty" yaml:"app_password,omitempty"`

	// PostStatus is the status for created posts: publish or draft
	// (default "publish").
	PostStatus string `json:"post_status" yaml:"post_status"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Images     ImageConfig      `json:"images" yaml:"images"`
	WordPress  WordPressConfig  `json:"wordpress" yaml:"wordpress"`

	// Workers is the number of articles processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// DraftsDir is the directory for pre-publish draft files.
	DraftsDir string `json:"drafts_dir" yaml:"drafts_dir"`

	// LedgerDir is the directory for the publish ledger database.
	LedgerDir string `json:"ledger_dir" yaml:"ledger_dir"`
}
