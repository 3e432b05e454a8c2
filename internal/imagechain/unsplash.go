// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagechain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// unsplashSearchBase is the Unsplash photo search endpoint. Declared as a
// var so tests can substitute an httptest server.
var unsplashSearchBase = "https://api.unsplash.com/search/photos"

// UnsplashVendor queries the Unsplash photo API.
type UnsplashVendor struct {
	AccessKey string
	Client    *http.Client
}

// Name returns the vendor identifier.
func (v *UnsplashVendor) Name() string { return "unsplash" }

// Search returns the first photo matching the query, or nil when Unsplash
// has no matches.
func (v *UnsplashVendor) Search(ctx context.Context, query string) (*Result, error) {
	reqURL := unsplashSearchBase + "?" + url.Values{
		"query":     {query},
		"per_page":  {"1"},
		"client_id": {v.AccessKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Unsplash API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Unsplash API returned HTTP %d", resp.StatusCode)
	}

	var ur unsplashResponse
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, fmt.Errorf("parsing Unsplash response: %w", err)
	}

	if len(ur.Results) == 0 {
		return nil, nil
	}

	photo := ur.Results[0]
	if photo.URLs.Regular == "" {
		return nil, fmt.Errorf("Unsplash photo has no regular URL")
	}

	return &Result{
		URL:         photo.URLs.Regular,
		Attribution: fmt.Sprintf("Photo by %s on Unsplash", photo.User.Name),
	}, nil
}

// Unsplash API JSON structures.
type unsplashResponse struct {
	Results []unsplashPhoto `json:"results"`
}

type unsplashPhoto struct {
	URLs unsplashURLs `json:"urls"`
	User unsplashUser `json:"user"`
}

type unsplashURLs struct {
	Regular string `json:"regular"`
}

type unsplashUser struct {
	Name string `json:"name"`
}
