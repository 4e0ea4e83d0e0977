package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-downloader/pkg/errors"
)

const (
	msgURLRequired      = "URL is required"
	msgInvalidBody      = "Invalid request body"
	msgExtractFailed    = "Failed to process Instagram URL"
	msgURLParamRequired = "URL parameter is required"
	msgDownloadFailed   = "Failed to download media"
)

type extractRequest struct {
	URL string `json:"url"`
}

type errorBody struct {
	Error string `json:"error"`
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorBody{Error: message})
}

// failureResponse maps err onto the caller-facing taxonomy. Server-side failures always get
// the fixed fallback message so no upstream detail leaks.
func failureResponse(c *gin.Context, err error, fallback string) {
	status := errors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		errorResponse(c, status, fallback)
		return
	}
	errorResponse(c, status, errors.GetMessage(err))
}

func (s *Server) healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// extract handles POST /extract with body {"url": "..."}.
func (s *Server) extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	postURL := strings.TrimSpace(req.URL)
	if postURL == "" {
		errorResponse(c, http.StatusBadRequest, msgURLRequired)
		return
	}

	result, err := s.instagram.Extract(c.Request.Context(), postURL)
	if err != nil {
		if errors.HTTPStatus(err) == http.StatusInternalServerError {
			s.logger.Error("Error processing Instagram URL", "url", postURL, "error", err)
		}
		failureResponse(c, err, msgExtractFailed)
		return
	}

	c.JSON(http.StatusOK, result)
}

// proxyDownload handles GET /proxy-download?url=... and streams the media as an attachment.
func (s *Server) proxyDownload(c *gin.Context) {
	mediaURL := strings.TrimSpace(c.Query("url"))
	if mediaURL == "" {
		errorResponse(c, http.StatusBadRequest, msgURLParamRequired)
		return
	}

	dl, err := s.downloader.Download(c.Request.Context(), mediaURL)
	if err != nil {
		failureResponse(c, err, msgDownloadFailed)
		return
	}
	defer dl.Body.Close()

	c.DataFromReader(http.StatusOK, dl.ContentLength, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition":    "attachment",
		"Cache-Control":          "public, max-age=3600",
		"X-Content-Type-Options": "nosniff",
	})
}
