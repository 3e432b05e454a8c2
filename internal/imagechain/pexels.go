// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagechain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// pexelsSearchBase is the Pexels photo search endpoint. Declared as a var
// so tests can substitute an httptest server.
var pexelsSearchBase = "https://api.pexels.com/v1/search"

// PexelsVendor queries the Pexels photo API.
type PexelsVendor struct {
	APIKey string
	Client *http.Client
}

// Name returns the vendor identifier.
func (v *PexelsVendor) Name() string { return "pexels" }

// Search returns the first photo matching the query, or nil when Pexels
// has no matches.
func (v *PexelsVendor) Search(ctx context.Context, query string) (*Result, error) {
	reqURL := pexelsSearchBase + "?" + url.Values{"query": {query}, "per_page": {"1"}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", v.APIKey)

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Pexels API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Pexels API returned HTTP %d", resp.StatusCode)
	}

	var pr pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("parsing Pexels response: %w", err)
	}

	if len(pr.Photos) == 0 {
		return nil, nil
	}

	photo := pr.Photos[0]
	if photo.Src.Large == "" {
		return nil, fmt.Errorf("Pexels photo has no large URL")
	}

	return &Result{
		URL:         photo.Src.Large,
		Attribution: fmt.Sprintf("Photo by %s on Pexels", photo.Photographer),
	}, nil
}

// Pexels API JSON structures.
type pexelsResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsPhoto struct {
	Photographer string    `json:"photographer"`
	Src          pexelsSrc `json:"src"`
}

type pexelsSrc struct {
	Large string `json:"large"`
}
