package instagram

import (
	"context"

	"github.com/orgball2608/insta-downloader/internal/domain"
)

// Client extracts the media list of a public post.
//
//go:generate go run go.uber.org/mock/mockgen -source=instagram.go -destination=mocks/mock.go
type Client interface {
	// Extract returns errors.ErrInvalidInput for a malformed URL, errors.ErrNotFound when the
	// page holds no recognizable media and errors.ErrUpstream when the page cannot be fetched.
	Extract(ctx context.Context, postURL string) (*domain.ExtractionResult, error)
}

// Downloader opens media hosted on the allow-listed CDN hosts.
type Downloader interface {
	Download(ctx context.Context, mediaURL string) (*domain.Download, error)
}
