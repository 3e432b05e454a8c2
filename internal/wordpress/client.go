// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wordpress is a minimal client for the WordPress REST API,
// covering the two endpoints the pipeline needs: media upload and post
// creation. Authentication uses an application password over basic auth.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/foodnservice/article-engine/internal/httputil"
	"github.com/foodnservice/article-engine/internal/imagechain"
	"github.com/foodnservice/article-engine/pkg/types"
)

const restPrefix = "/wp-json/wp/v2"

// PublishError reports a non-success response from the posts endpoint.
// It is fatal for the article being published; the draft file on disk is
// the recovery artifact.
type PublishError struct {
	StatusCode int
	Body       string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("wordpress rejected post: HTTP %d: %s", e.StatusCode, e.Body)
}

// Post is the payload for creating one post.
type Post struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	Status        string `json:"status"`
	FeaturedMedia int    `json:"featured_media,omitempty"`
}

// Client talks to one WordPress site.
type Client struct {
	baseURL   string
	username  string
	password  string
	userAgent string
	client    *http.Client
}

// NewClient builds a client from config.
func NewClient(cfg types.WordPressConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("wordpress base_url is required")
	}
	if cfg.Username == "" || cfg.AppPassword == "" {
		return nil, fmt.Errorf("wordpress credentials missing; provide username and app_password")
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		username:  cfg.Username,
		password:  cfg.AppPassword,
		userAgent: cfg.UserAgent,
		client:    httputil.NewClient(cfg.HTTPConfig),
	}, nil
}

// UploadMedia uploads a binary image to the media endpoint and returns the
// backend's media ID and hosted URL.
func (c *Client) UploadMedia(ctx context.Context, data []byte, filename, caption string) (imagechain.MediaRef, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return imagechain.MediaRef{}, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return imagechain.MediaRef{}, fmt.Errorf("building upload form: %w", err)
	}
	for field, value := range map[string]string{"caption": caption, "description": caption} {
		if err := mw.WriteField(field, value); err != nil {
			return imagechain.MediaRef{}, fmt.Errorf("building upload form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return imagechain.MediaRef{}, fmt.Errorf("building upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restPrefix+"/media", &body)
	if err != nil {
		return imagechain.MediaRef{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.prepare(req)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return imagechain.MediaRef{}, fmt.Errorf("media upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return imagechain.MediaRef{}, fmt.Errorf("media upload returned HTTP %d", resp.StatusCode)
	}

	var mr mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return imagechain.MediaRef{}, fmt.Errorf("parsing media response: %w", err)
	}
	if mr.ID == 0 || mr.SourceURL == "" {
		return imagechain.MediaRef{}, fmt.Errorf("media response missing id or source_url")
	}

	return imagechain.MediaRef{ID: mr.ID, URL: mr.SourceURL}, nil
}

// CreatePost creates one post and returns its ID. A non-201 response is a
// *PublishError.
func (c *Client) CreatePost(ctx context.Context, post Post) (int, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return 0, fmt.Errorf("marshaling post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restPrefix+"/posts", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.prepare(req)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, 0)
	if err != nil {
		return 0, fmt.Errorf("post request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return 0, &PublishError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var pr postResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return 0, fmt.Errorf("parsing post response: %w", err)
	}
	if pr.ID == 0 {
		return 0, fmt.Errorf("post response missing id")
	}
	return pr.ID, nil
}

func (c *Client) prepare(req *http.Request) {
	req.SetBasicAuth(c.username, c.password)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}

// WordPress REST API JSON structures.
type mediaResponse struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

type postResponse struct {
	ID int `json:"id"`
}
