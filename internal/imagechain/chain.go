// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package imagechain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/foodnservice/article-engine/internal/prompt"
	"github.com/foodnservice/article-engine/pkg/types"
)

// maxImageBytes caps a vendor image download.
const maxImageBytes = 20 << 20

// Keyworder derives a short search phrase via one free-text completion.
type Keyworder interface {
	Keyword(ctx context.Context, promptText string) (string, error)
}

// MediaRef identifies an uploaded asset at the publishing backend.
type MediaRef struct {
	ID  int
	URL string
}

// MediaUploader persists a downloaded image to the publishing backend's
// media store.
type MediaUploader interface {
	UploadMedia(ctx context.Context, data []byte, filename, caption string) (MediaRef, error)
}

// Chain resolves one image per section by querying vendors in a fixed
// priority order until one returns a result that survives download and
// upload. First success wins; there is no ranking across vendors.
type Chain struct {
	keyworder Keyworder
	vendors   []Vendor
	uploader  MediaUploader
	client    *http.Client
	w         io.Writer
}

// NewChain assembles a resolution chain. Vendor order is query order.
func NewChain(keyworder Keyworder, vendors []Vendor, uploader MediaUploader, client *http.Client, w io.Writer) *Chain {
	return &Chain{
		keyworder: keyworder,
		vendors:   vendors,
		uploader:  uploader,
		client:    client,
		w:         w,
	}
}

// Resolve finds and uploads an illustration for one section. It returns
// (nil, nil) when no vendor yields a usable asset; the article proceeds
// without an image. A keyword-derivation failure also resolves to no
// image: no vendor is ever queried with an empty phrase.
func (c *Chain) Resolve(ctx context.Context, topic, sectionText string) (*types.ImageAsset, error) {
	keyword, err := c.keyworder.Keyword(ctx, prompt.ImageKeyword(topic, sectionText))
	if err != nil {
		fmt.Fprintf(c.w, "warning: image keyword for %q failed: %v\n", sectionText, err)
		return nil, nil
	}
	if keyword == "" {
		fmt.Fprintf(c.w, "warning: image keyword for %q came back empty\n", sectionText)
		return nil, nil
	}

	for _, vendor := range c.vendors {
		result, err := vendor.Search(ctx, keyword)
		if err != nil {
			fmt.Fprintf(c.w, "warning: vendor %s failed for %q: %v\n", vendor.Name(), keyword, err)
			continue
		}
		if result == nil {
			fmt.Fprintf(c.w, "vendor %s: no results for %q\n", vendor.Name(), keyword)
			continue
		}

		asset, err := c.store(ctx, keyword, result)
		if err != nil {
			// A sourced-but-unstorable image is equivalent to no image
			// from this vendor; move on to the next one.
			fmt.Fprintf(c.w, "warning: vendor %s result unusable for %q: %v\n", vendor.Name(), keyword, err)
			continue
		}
		return asset, nil
	}

	return nil, nil
}

// store downloads the vendor image and uploads it to the media backend.
func (c *Chain) store(ctx context.Context, keyword string, result *Result) (*types.ImageAsset, error) {
	data, err := c.download(ctx, result.URL)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}

	ref, err := c.uploader.UploadMedia(ctx, data, imageFilename(keyword, result.URL), result.Attribution)
	if err != nil {
		return nil, fmt.Errorf("uploading media: %w", err)
	}

	return &types.ImageAsset{
		RemoteURL:   result.URL,
		Attribution: result.Attribution,
		MediaID:     ref.ID,
		HostedURL:   ref.URL,
	}, nil
}

func (c *Chain) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image download was empty")
	}
	return data, nil
}

// imageFilename builds a media filename from the search keyword and the
// source URL's extension.
func imageFilename(keyword, imageURL string) string {
	ext := path.Ext(strings.Split(path.Base(imageURL), "?")[0])
	if ext == "" {
		ext = ".jpg"
	}
	slug := strings.Join(strings.Fields(strings.ToLower(keyword)), "-")
	if slug == "" {
		slug = "section-image"
	}
	return slug + ext
}

// VendorsFromConfig builds the vendor list in the configured priority
// order. Unknown names are skipped with a warning so a typo in one entry
// does not take the whole chain down.
func VendorsFromConfig(cfg types.ImageConfig, client *http.Client, w io.Writer) []Vendor {
	order := cfg.VendorOrder
	if len(order) == 0 {
		order = []string{"pexels", "unsplash", "pixabay", "freepik", "wikimedia"}
	}

	var vendors []Vendor
	for _, name := range order {
		switch name {
		case "pexels":
			vendors = append(vendors, &PexelsVendor{APIKey: cfg.PexelsAPIKey, Client: client})
		case "unsplash":
			vendors = append(vendors, &UnsplashVendor{AccessKey: cfg.UnsplashAccessKey, Client: client})
		case "pixabay":
			vendors = append(vendors, &PixabayVendor{APIKey: cfg.PixabayAPIKey, Client: client})
		case "freepik":
			vendors = append(vendors, &FreepikVendor{APIKey: cfg.FreepikAPIKey, Client: client})
		case "wikimedia":
			vendors = append(vendors, &WikimediaVendor{UserAgent: cfg.UserAgent, Client: client})
		default:
			fmt.Fprintf(w, "warning: unknown image vendor %q in vendor_order\n", name)
		}
	}
	return vendors
}
