// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagechain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// pixabaySearchBase is the Pixabay API endpoint. Declared as a var so
// tests can substitute an httptest server.
var pixabaySearchBase = "https://pixabay.com/api/"

// PixabayVendor queries the Pixabay image API.
type PixabayVendor struct {
	APIKey string
	Client *http.Client
}

// Name returns the vendor identifier.
func (v *PixabayVendor) Name() string { return "pixabay" }

// Search returns the first image matching the query, or nil when Pixabay
// has no hits.
func (v *PixabayVendor) Search(ctx context.Context, query string) (*Result, error) {
	reqURL := pixabaySearchBase + "?" + url.Values{
		"key":      {v.APIKey},
		"q":        {query},
		"per_page": {"3"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Pixabay API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Pixabay API returned HTTP %d", resp.StatusCode)
	}

	var pr pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing Pixabay response: %w", err)
	}

	if len(pr.Hits) == 0 {
		return nil, nil
	}

	hit := pr.Hits[0]
	if hit.LargeImageURL == "" {
		return nil, fmt.Errorf("Pixabay hit has no large image URL")
	}

	return &Result{
		URL:         hit.LargeImageURL,
		Attribution: fmt.Sprintf("Image by %s from Pixabay", hit.User),
	}, nil
}

// Pixabay API JSON structures.
type pixabayResponse struct {
	Hits []pixabayHit `json:"hits"`
}

type pixabayHit struct {
	LargeImageURL string `json:"largeImageURL"`
	User          string `json:"user"`
}
