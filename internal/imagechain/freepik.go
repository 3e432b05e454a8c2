// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagechain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// freepikAPIBase is the Freepik resources endpoint. Declared as a var so
// tests can substitute an httptest server.
var freepikAPIBase = "https://api.freepik.com/v1/resources"

// FreepikVendor queries the Freepik API. Freepik needs two round trips:
// a search for resources, then a per-resource download URL lookup. Only
// jpg/png downloads are accepted.
type FreepikVendor struct {
	APIKey string
	Client *http.Client
}

// Name returns the vendor identifier.
func (v *FreepikVendor) Name() string { return "freepik" }

// Search returns the first jpg/png resource matching the query, or nil
// when no resource qualifies.
func (v *FreepikVendor) Search(ctx context.Context, query string) (*Result, error) {
	reqURL := freepikAPIBase + "?" + url.Values{"search": {query}, "limit": {"5"}}.Encode()

	var search freepikSearchResponse
	if err := v.getJSON(ctx, reqURL, &search); err != nil {
		return nil, err
	}

	if len(search.Data) == 0 {
		return nil, nil
	}

	for _, item := range search.Data {
		dlURL := fmt.Sprintf("%s/%d/download", freepikAPIBase, item.ID)
		var download freepikDownloadResponse
		if err := v.getJSON(ctx, dlURL, &download); err != nil {
			return nil, err
		}

		imgURL := download.Data.URL
		lower := strings.ToLower(imgURL)
		if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") && !strings.HasSuffix(lower, ".png") {
			continue
		}

		title := item.Title
		if title == "" {
			title = "Freepik image"
		}
		return &Result{
			URL:         imgURL,
			Attribution: fmt.Sprintf("%s by %s on Freepik", title, item.Author.Name),
		}, nil
	}

	// Resources found, none with a direct jpg/png download.
	return nil, nil
}

func (v *FreepikVendor) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-freepik-api-key", v.APIKey)

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("Freepik API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Freepik API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Freepik response: %w", err)
	}
	return nil
}

// Freepik API JSON structures.
type freepikSearchResponse struct {
	Data []freepikResource `json:"data"`
}

type freepikResource struct {
	ID     int           `json:"id"`
	Title  string        `json:"title"`
	Author freepikAuthor `json:"author"`
}

type freepikAuthor struct {
	Name string `json:"name"`
}

type freepikDownloadResponse struct {
	Data freepikDownload `json:"data"`
}

type freepikDownload struct {
	URL string `json:"url"`
}
