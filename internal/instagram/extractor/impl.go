package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/orgball2608/insta-downloader/pkg/httputil"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

const (
	maxPageSize = 10 << 20

	notFoundMessage = "Could not extract media from Instagram post"
	upstreamMessage = "Failed to process Instagram URL"
)

// pageStrategy reads one representation of the post out of the parsed HTML page.
type pageStrategy struct {
	name  string
	parse func(doc *goquery.Document) (*domain.ExtractionResult, bool)
}

// pageStrategies run in order on the same page; the first hit wins.
var pageStrategies = []pageStrategy{
	{name: "json-ld", parse: fromJSONLD},
	{name: "opengraph", parse: fromOpenGraph},
}

type Opts struct {
	fx.In

	Config     *config.Config
	Logger     logger.Logger
	HTTPClient *http.Client
}

type Extractor struct {
	client    *http.Client
	logger    logger.Logger
	timeout   time.Duration
	userAgent string
}

func New(opts Opts) *Extractor {
	timeout := opts.Config.Instagram.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Extractor{
		client:    opts.HTTPClient,
		logger:    opts.Logger,
		timeout:   timeout,
		userAgent: opts.Config.Instagram.UserAgent,
	}
}

var _ instagram.Client = (*Extractor)(nil)

func (e *Extractor) Extract(ctx context.Context, postURL string) (*domain.ExtractionResult, error) {
	ref, err := instagram.ParsePostURL(postURL)
	if err != nil {
		return nil, err
	}

	log := e.logger.With("shortcode", ref.Shortcode, "kind", ref.Kind)

	if result, ok := e.tryStructuredData(ctx, ref, log); ok {
		log.Info("Extracted media", "strategy", "structured-data", "media_count", len(result.Media))
		return result, nil
	}

	body, err := e.fetch(ctx, ref.URL)
	if err != nil {
		log.Error("Failed to fetch post page", "error", err)
		return nil, errors.Upstream(err, upstreamMessage)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Error("Failed to parse post page", "error", err)
		return nil, errors.Upstream(err, upstreamMessage)
	}

	for _, s := range pageStrategies {
		if result, ok := s.parse(doc); ok {
			log.Info("Extracted media", "strategy", s.name, "media_count", len(result.Media))
			return result, nil
		}
		log.Debug("Strategy found no media", "strategy", s.name)
	}

	log.Warn("No media found on post page")
	return nil, errors.NotFound(notFoundMessage)
}

// tryStructuredData never fails the extraction; any problem only means falling back to the page.
func (e *Extractor) tryStructuredData(ctx context.Context, ref domain.PostReference, log logger.Logger) (*domain.ExtractionResult, bool) {
	body, err := e.fetch(ctx, instagram.StructuredDataURL(ref))
	if err != nil {
		log.Warn("Structured data fetch failed, falling back to HTML", "error", err)
		return nil, false
	}

	result, ok := fromStructuredData(body)
	if !ok {
		log.Debug("Structured data response held no media, falling back to HTML")
	}
	return result, ok
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := httputil.Get(ctx, e.client, rawURL, httputil.DocumentHeaders(e.userAgent))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
