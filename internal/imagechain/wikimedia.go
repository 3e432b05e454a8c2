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

// wikimediaAPIBase is the Wikimedia Commons API endpoint. Declared as a
// var so tests can substitute an httptest server.
var wikimediaAPIBase = "https://commons.wikimedia.org/w/api.php"

// fileNamespace is the MediaWiki namespace for File: pages.
const fileNamespace = "6"

// WikimediaVendor queries Wikimedia Commons. It needs no API key but
// requires a User-Agent, and takes two round trips: a file-namespace
// search, then an imageinfo lookup per candidate. Only image/* mime types
// are accepted.
type WikimediaVendor struct {
	UserAgent string
	Client    *http.Client
}

// Name returns the vendor identifier.
func (v *WikimediaVendor) Name() string { return "wikimedia" }

// Search returns the first Commons file with an image mime type matching
// the query, or nil when none qualifies.
func (v *WikimediaVendor) Search(ctx context.Context, query string) (*Result, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"list":        {"search"},
		"srsearch":    {query},
		"srnamespace": {fileNamespace},
		"srlimit":     {"5"},
	}

	var sr wikimediaSearchResponse
	if err := v.getJSON(ctx, params, &sr); err != nil {
		return nil, err
	}

	if len(sr.Query.Search) == 0 {
		return nil, nil
	}

	for _, hit := range sr.Query.Search {
		params := url.Values{
			"action": {"query"},
			"format": {"json"},
			"titles": {hit.Title},
			"prop":   {"imageinfo"},
			"iiprop": {"url|mime"},
		}

		var ir wikimediaImageInfoResponse
		if err := v.getJSON(ctx, params, &ir); err != nil {
			return nil, err
		}

		for _, page := range ir.Query.Pages {
			for _, info := range page.ImageInfo {
				if !strings.HasPrefix(info.Mime, "image/") {
					continue
				}
				return &Result{
					URL:         info.URL,
					Attribution: fmt.Sprintf("Image from Wikimedia Commons (%s)", hit.Title),
				}, nil
			}
		}
	}

	// File pages found, none resolving to an actual image.
	return nil, nil
}

func (v *WikimediaVendor) getJSON(ctx context.Context, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wikimediaAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", v.UserAgent)

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("Wikimedia API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Wikimedia API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing Wikimedia response: %w", err)
	}
	return nil
}

// Wikimedia API JSON structures.
type wikimediaSearchResponse struct {
	Query wikimediaSearchQuery `json:"query"`
}

type wikimediaSearchQuery struct {
	Search []wikimediaSearchHit `json:"search"`
}

type wikimediaSearchHit struct {
	Title string `json:"title"`
}

type wikimediaImageInfoResponse struct {
	Query wikimediaPagesQuery `json:"query"`
}

type wikimediaPagesQuery struct {
	Pages map[string]wikimediaPage `json:"pages"`
}

type wikimediaPage struct {
	ImageInfo []wikimediaImageInfo `json:"imageinfo"`
}

type wikimediaImageInfo struct {
	URL  string `json:"url"`
	Mime string `json:"mime"`
}
