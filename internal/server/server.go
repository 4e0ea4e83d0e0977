package server

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-downloader/internal/instagram"
	"github.com/orgball2608/insta-downloader/pkg/config"
	"github.com/orgball2608/insta-downloader/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config     *config.Config
	Logger     logger.Logger
	Instagram  instagram.Client
	Downloader instagram.Downloader
}

type Server struct {
	config     *config.Config
	logger     logger.Logger
	instagram  instagram.Client
	downloader instagram.Downloader
}

func New(opts Opts) *Server {
	return &Server{
		config:     opts.Config,
		logger:     opts.Logger,
		instagram:  opts.Instagram,
		downloader: opts.Downloader,
	}
}

// Router builds the gin engine serving the public API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(
		requestID(),
		requestLogger(s.logger),
		recovery(s.logger),
		cors.New(corsConfig(s.config.HTTP.AllowOrigins)),
	)

	r.GET("/healthz", s.healthz)

	r.POST("/extract", s.extract)
	r.GET("/proxy-download", s.proxyDownload)

	// Legacy paths still called by the web client.
	api := r.Group("/api")
	api.POST("/instagram", s.extract)
	api.GET("/download", s.proxyDownload)

	r.NoRoute(func(c *gin.Context) {
		errorResponse(c, http.StatusNotFound, "Not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Disposition", requestIDHeader},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
