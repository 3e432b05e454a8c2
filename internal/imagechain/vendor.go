// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imagechain sources one illustration per article section from an
// ordered list of stock-image vendors. The chain stops at the first vendor
// whose result survives download and media upload; vendor failures are
// logged and absorbed, never propagated, and "every vendor exhausted" is a
// normal no-image outcome rather than an error.
package imagechain

import "context"

// Result is one usable hit from a vendor: a direct image URL and the
// attribution line to publish with it.
type Result struct {
	URL         string
	Attribution string
}

// Vendor searches a single image provider. A nil Result with a nil error
// means the vendor had no matches; an error means the query itself failed
// (transport error, unexpected payload). Callers must not conflate the two.
type Vendor interface {
	Name() string
	Search(ctx context.Context, query string) (*Result, error)
}
