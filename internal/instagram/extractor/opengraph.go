package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/insta-downloader/internal/domain"
)

// metaContent returns the content of the first non-empty <meta property=...> among properties.
func metaContent(doc *goquery.Document, properties ...string) string {
	for _, p := range properties {
		content, _ := doc.Find(`meta[property="` + p + `"]`).First().Attr("content")
		if content = strings.TrimSpace(content); content != "" {
			return content
		}
	}
	return ""
}

// fromOpenGraph falls back to the social preview tags. The username cannot be recovered here.
func fromOpenGraph(doc *goquery.Document) (*domain.ExtractionResult, bool) {
	video := metaContent(doc, "og:video", "og:video:secure_url", "og:video:url")
	image := metaContent(doc, "og:image", "og:image:secure_url", "og:image:url")

	var item domain.MediaItem
	switch {
	case video != "":
		item = domain.NewVideo(video, image)
	case image != "":
		item = domain.NewImage(image)
	default:
		return nil, false
	}

	return &domain.ExtractionResult{
		Media:   []domain.MediaItem{item},
		Caption: metaContent(doc, "og:description"),
	}, true
}
