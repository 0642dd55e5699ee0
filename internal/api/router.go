package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/vdpcore/licensed/internal/api/handlers"
	"github.com/vdpcore/licensed/internal/api/middleware"
	"github.com/vdpcore/licensed/internal/config"
	"github.com/vdpcore/licensed/internal/license"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	config *config.Config
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, issuer *license.Issuer, audit license.AuditSink, logger *slog.Logger) *Server {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	licenseHandler := handlers.NewLicenseHandler(issuer, audit)

	// Admin endpoints. The API key check logs key presence and, unless
	// enforcement is switched on, lets every request through.
	admin := router.Group("/admin")
	admin.Use(middleware.APIKeyCheck(cfg.Auth, logger))
	{
		admin.POST("/generate-license", licenseHandler.Generate)
		admin.GET("/licenses", licenseHandler.List)
		admin.GET("/licenses/stats", licenseHandler.Stats)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "running",
		})
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	return s.router.Run(s.config.Server.ListenAddr)
}

// Router returns the underlying Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}
