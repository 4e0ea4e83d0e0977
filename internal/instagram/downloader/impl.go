package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/orgball2608/insta-downloader/internal/domain"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/orgball2608/insta-downloader/pkg/httputil"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

const (
	defaultContentType = "application/octet-stream"

	invalidURLMessage = "Invalid media URL"
	failedMessage     = "Failed to download media"
)

type Opts struct {
	fx.In

	Config     *config.Config
	Logger     logger.Logger
	HTTPClient *http.Client
}

type Downloader struct {
	client    *http.Client
	logger    logger.Logger
	allowList instagram.HostAllowList
	timeout   time.Duration
	userAgent string
}

func New(opts Opts) *Downloader {
	allowList := instagram.NewHostAllowList(opts.Config.Proxy.AllowedHosts...)

	maxRedirects := opts.Config.Instagram.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 5
	}
	timeout := opts.Config.Proxy.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Every redirect hop must stay on the allow-list too.
	client := httputil.WithRedirectPolicy(opts.HTTPClient, maxRedirects, func(target *url.URL) error {
		if !allowList.Allows(target.Host) {
			return fmt.Errorf("redirect to disallowed host %q", target.Host)
		}
		return nil
	})

	return &Downloader{
		client:    client,
		logger:    opts.Logger,
		allowList: allowList,
		timeout:   timeout,
		userAgent: opts.Config.Instagram.UserAgent,
	}
}

var _ instagram.Downloader = (*Downloader)(nil)

// Download opens mediaURL. The returned body keeps the request timeout running until it is closed.
func (d *Downloader) Download(ctx context.Context, mediaURL string) (*domain.Download, error) {
	u, ok := d.allowList.AllowsURL(mediaURL)
	if !ok {
		return nil, errors.InvalidInput(invalidURLMessage)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)

	resp, err := httputil.Get(ctx, d.client, mediaURL, httputil.MediaHeaders(d.userAgent))
	if err != nil {
		cancel()
		d.logger.Error("Failed to download media", "host", u.Host, "error", err)
		return nil, errors.Upstream(err, failedMessage)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	d.logger.Debug("Media download started", "host", u.Host, "content_type", contentType, "content_length", resp.ContentLength)

	return &domain.Download{
		ContentType:   contentType,
		ContentLength: resp.ContentLength,
		Body:          &cancelOnClose{ReadCloser: resp.Body, cancel: cancel},
	}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}
