package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (b *decodedBody) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DecodeBody replaces resp.Body with a reader that undoes Content-Encoding.
// Needed because setting Accept-Encoding by hand disables the transport's own gzip handling.
// Content-Length and Content-Encoding are dropped once the body is decoded.
func DecodeBody(resp *http.Response) error {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if encoding == "" || encoding == "identity" {
		return nil
	}

	raw := resp.Body
	body := &decodedBody{closers: []io.Closer{raw}}

	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return fmt.Errorf("opening gzip body: %w", err)
		}
		body.Reader = zr
		body.closers = append([]io.Closer{zr}, body.closers...)
	case "deflate":
		zr, err := zlib.NewReader(raw)
		if err != nil {
			return fmt.Errorf("opening deflate body: %w", err)
		}
		body.Reader = zr
		body.closers = append([]io.Closer{zr}, body.closers...)
	case "br":
		body.Reader = brotli.NewReader(raw)
	default:
		return fmt.Errorf("unsupported content encoding %q", encoding)
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}
