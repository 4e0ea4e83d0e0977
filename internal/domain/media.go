package domain

import "io"

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is one downloadable asset of a post. URL is never empty;
// Thumbnail is only set for videos with a distinct preview image.
type MediaItem struct {
	Kind      MediaKind `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

func NewImage(url string) MediaItem {
	return MediaItem{Kind: MediaImage, URL: url}
}

func NewVideo(url, thumbnail string) MediaItem {
	return MediaItem{Kind: MediaVideo, URL: url, Thumbnail: thumbnail}
}

func (m MediaItem) IsVideo() bool {
	return m.Kind == MediaVideo
}

// ExtractionResult lists the media of a post in carousel order.
type ExtractionResult struct {
	Media    []MediaItem `json:"media"`
	Caption  string      `json:"caption"`
	Username string      `json:"username"`
}

// Download is an open upstream media stream. The caller closes Body.
type Download struct {
	ContentType   string
	ContentLength int64
	Body          io.ReadCloser
}
