package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/apiqa/testforge/internal/generator"
	"github.com/apiqa/testforge/internal/stats"
	"github.com/apiqa/testforge/internal/storage"
	"github.com/apiqa/testforge/internal/tracing"
)

// Router handles HTTP routing
type Router struct {
	engine         *gin.Engine
	client         *generator.Client
	store          storage.Storage
	statsCollector *stats.Collector
	tracingService *tracing.Service
	handler        *Handler
}

// NewRouter creates a new router
func NewRouter(client *generator.Client, store storage.Storage, statsCollector *stats.Collector, tracingService *tracing.Service) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:         gin.New(),
		client:         client,
		store:          store,
		statsCollector: statsCollector,
		tracingService: tracingService,
	}

	// Create handler
	r.handler = NewHandler(client, store, statsCollector, tracingService)

	// Setup middleware
	r.engine.Use(gin.Recovery())
	r.engine.Use(corsMiddleware())
	r.engine.Use(gin.Logger())

	// Setup routes
	r.setupRoutes()

	return r
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	api := r.engine.Group("/api/v1")
	{
		// Generation
		api.POST("/generate-tests", r.handler.GenerateTests)

		// Spec validation
		api.POST("/spec/validate", r.handler.ValidateSpec)

		// Provider diagnostics
		api.GET("/provider/test", r.handler.TestProvider)

		// Suite archive
		api.GET("/suites", r.handler.ListSuites)
		api.GET("/suites/:id", r.handler.GetSuite)
		api.DELETE("/suites/:id", r.handler.DeleteSuite)

		// Tracing
		api.GET("/traces", r.handler.ListTraces)
		api.GET("/traces/:id", r.handler.GetTrace)
		api.DELETE("/traces", r.handler.ClearTraces)

		// Statistics
		api.GET("/stats", r.handler.GetStats)
		api.POST("/stats/reset", r.handler.ResetStats)

		// Health
		api.GET("/health", r.handler.HealthCheck)
	}

	// WebSocket for live traces
	wsHandler := tracing.NewWebSocketHandler(r.tracingService)
	r.engine.GET("/api/v1/traces/stream", gin.WrapH(wsHandler))

	// Bare health endpoint for load balancer probes
	r.engine.GET("/health", r.handler.HealthCheck)
}

// ServeUIFromFS serves the frontend from the filesystem
func (r *Router) ServeUIFromFS(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		r.engine.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "UI not available",
				"message": "No frontend directory found; the API is still served under /api/v1",
			})
		})
		return
	}

	r.engine.Static("/static", filepath.Join(dir, "static"))
	r.engine.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(dir, "index.html"))
	})

	// SPA routing - serve index.html for unknown non-API paths
	r.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
}

// Handler returns the http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
