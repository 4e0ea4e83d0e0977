package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-downloader/internal/domain"
	mock_instagram "github.com/orgball2608/insta-downloader/internal/instagram/mocks"
	"github.com/orgball2608/insta-downloader/pkg/config"
	apperrors "github.com/orgball2608/insta-downloader/pkg/errors"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router     *gin.Engine
	instagram  *mock_instagram.MockClient
	downloader *mock_instagram.MockDownloader
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		instagram:  mock_instagram.NewMockClient(ctrl),
		downloader: mock_instagram.NewMockDownloader(ctrl),
	}
	f.router = New(Opts{
		Config:     &config.Config{},
		Logger:     logger.NewNop(),
		Instagram:  f.instagram,
		Downloader: f.downloader,
	}).Router()
	return f
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func postExtract(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestExtractOK(t *testing.T) {
	f := newFixture(t)
	f.instagram.EXPECT().
		Extract(gomock.Any(), "https://www.instagram.com/p/ABC123/").
		Return(&domain.ExtractionResult{
			Media: []domain.MediaItem{
				domain.NewImage("https://x.cdninstagram.com/a.jpg"),
				domain.NewVideo("https://x.cdninstagram.com/b.mp4", "https://x.cdninstagram.com/b.jpg"),
			},
			Caption:  "hello",
			Username: "someone",
		}, nil)

	w := f.do(postExtract("/extract", `{"url":"  https://www.instagram.com/p/ABC123/ "}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"media": [
			{"type": "image", "url": "https://x.cdninstagram.com/a.jpg"},
			{"type": "video", "url": "https://x.cdninstagram.com/b.mp4", "thumbnail": "https://x.cdninstagram.com/b.jpg"}
		],
		"caption": "hello",
		"username": "someone"
	}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestExtractLegacyPath(t *testing.T) {
	f := newFixture(t)
	f.instagram.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		Return(&domain.ExtractionResult{Media: []domain.MediaItem{domain.NewImage("https://x/a.jpg")}}, nil)

	w := f.do(postExtract("/api/instagram", `{"url":"https://www.instagram.com/p/ABC123/"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		extractErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			body:       `{"url":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "missing url",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "URL is required",
		},
		{
			name:       "invalid url",
			body:       `{"url":"https://example.com/p/ABC/"}`,
			extractErr: apperrors.InvalidInput("Invalid Instagram URL. Supported formats: posts (/p/), reels (/reel/), and IGTV (/tv/)"),
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Instagram URL. Supported formats: posts (/p/), reels (/reel/), and IGTV (/tv/)",
		},
		{
			name:       "not found",
			body:       `{"url":"https://www.instagram.com/p/ABC123/"}`,
			extractErr: apperrors.NotFound("Could not extract media from Instagram post"),
			wantStatus: http.StatusNotFound,
			wantError:  "Could not extract media from Instagram post",
		},
		{
			name:       "upstream failure hides detail",
			body:       `{"url":"https://www.instagram.com/p/ABC123/"}`,
			extractErr: apperrors.Upstream(errors.New("dial tcp 157.240.0.1:443: i/o timeout"), "fetch page"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to process Instagram URL",
		},
		{
			name:       "unexpected error hides detail",
			body:       `{"url":"https://www.instagram.com/p/ABC123/"}`,
			extractErr: errors.New("secret internal state"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to process Instagram URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.extractErr != nil {
				f.instagram.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, tt.extractErr)
			}

			w := f.do(postExtract("/extract", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeError(t, w))
		})
	}
}

func TestProxyDownloadOK(t *testing.T) {
	f := newFixture(t)
	mediaURL := "https://scontent.cdninstagram.com/v/t51/img.jpg?stp=dst-jpg&oh=abc"
	f.downloader.EXPECT().
		Download(gomock.Any(), mediaURL).
		Return(&domain.Download{
			ContentType:   "image/jpeg",
			ContentLength: 4,
			Body:          io.NopCloser(strings.NewReader("\xff\xd8\xff\xe0")),
		}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/proxy-download?url="+url.QueryEscape(mediaURL), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "4", w.Header().Get("Content-Length"))
	assert.Equal(t, "\xff\xd8\xff\xe0", w.Body.String())
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestProxyDownloadClosesBody(t *testing.T) {
	f := newFixture(t)
	body := &closeRecorder{Reader: strings.NewReader("video")}
	f.downloader.EXPECT().
		Download(gomock.Any(), gomock.Any()).
		Return(&domain.Download{ContentType: "video/mp4", ContentLength: -1, Body: body}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/download?url=https%3A%2F%2Fvideo.fbcdn.net%2Fv.mp4", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video", w.Body.String())
	assert.True(t, body.closed)
}

func TestProxyDownloadErrors(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		downloadErr error
		wantStatus  int
		wantError   string
	}{
		{
			name:       "missing url",
			query:      "",
			wantStatus: http.StatusBadRequest,
			wantError:  "URL parameter is required",
		},
		{
			name:        "disallowed host",
			query:       "?url=" + url.QueryEscape("https://evilinstagram.com.attacker.net/x.jpg"),
			downloadErr: apperrors.InvalidInput("Invalid media URL"),
			wantStatus:  http.StatusBadRequest,
			wantError:   "Invalid media URL",
		},
		{
			name:        "fetch failure",
			query:       "?url=" + url.QueryEscape("https://scontent.cdninstagram.com/x.jpg"),
			downloadErr: apperrors.Upstream(errors.New("unexpected status 403"), "fetch"),
			wantStatus:  http.StatusInternalServerError,
			wantError:   "Failed to download media",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.downloadErr != nil {
				f.downloader.EXPECT().Download(gomock.Any(), gomock.Any()).Return(nil, tt.downloadErr)
			}

			w := f.do(httptest.NewRequest(http.MethodGet, "/proxy-download"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeError(t, w))
			assert.Empty(t, w.Header().Get("Content-Disposition"))
		})
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestPanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.instagram.EXPECT().
		Extract(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) (*domain.ExtractionResult, error) {
			panic("boom")
		})

	w := f.do(postExtract("/extract", `{"url":"https://www.instagram.com/p/ABC123/"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeError(t, w))
}

func TestRequestIDIsPropagated(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")

	w := f.do(req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}
