package api

import (
	"net/http"
	"os"
	"path/filepath"

	"domain-panel/internal/logger"
	"domain-panel/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configure NewRouter.
type RouterOptions struct {
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer // nil disables /metrics
	Logger    logger.Logger
	StaticDir string // empty disables the frontend
}

// NewRouter builds the engine with middleware, health, metrics, the
// frontend and every API route.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	lg := opts.Logger
	if lg == nil {
		lg = logger.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(lg))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
	}
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	SetupRoutes(r, h)

	if opts.StaticDir != "" {
		index := filepath.Join(opts.StaticDir, "index.html")
		if _, err := os.Stat(index); err != nil {
			lg.Warn("Frontend not found, serving API only", logger.String("dir", opts.StaticDir))
			return r
		}
		r.Static("/static", opts.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.File(index)
		})
	}
	return r
}
