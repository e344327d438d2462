package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pdf_assembler/pdf"
)

// Config holds application configuration
type Config struct {
	Port        string
	MaxFileSize int64
	TempDir     string
	Optimize    bool

	Engine pdf.Engine
	Logger logrus.FieldLogger
}

// SetupRoutes registers the PDF endpoints and the health check on r.
func SetupRoutes(r *gin.Engine, config *Config) {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	apiGroup := r.Group("/api/pdf")
	{
		apiGroup.POST("/upload", func(c *gin.Context) { HandleUpload(c, config) })
		apiGroup.POST("/resave", func(c *gin.Context) { HandleResave(c, config) })
		apiGroup.POST("/remove-pages", func(c *gin.Context) { HandleRemovePages(c, config) })
		apiGroup.POST("/select-pages", func(c *gin.Context) { HandleSelectPages(c, config) })
		apiGroup.POST("/crop", func(c *gin.Context) { HandleCrop(c, config) })
		apiGroup.POST("/scale", func(c *gin.Context) { HandleScale(c, config) })
		apiGroup.POST("/parse-range", HandleParseRange)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "pdf_assembler",
		})
	})
}
