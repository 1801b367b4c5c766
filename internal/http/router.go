package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggerMiddleware())
	router.Use(SecurityHeadersMiddleware())

	// Load HTML templates when present; views fall back to JSON otherwise
	html := loadTemplates(router, cfg.TemplatesPath)
	router.Use(func(c *gin.Context) {
		c.Set(ctxKeyHTML, html)
		c.Next()
	})

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Catalog pages; CSRF applies to these only
	pages := router.Group("/")
	if len(cfg.CSRFSecret) > 0 {
		pages.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	pages.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})
	NewCatalogController(cfg.Catalog, cfg.Metrics).RegisterRoutes(pages)

	return router
}

// loadTemplates parses every *.html file under dir. It reports whether any
// were found.
func loadTemplates(router *gin.Engine, dir string) bool {
	if dir == "" {
		return false
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil || len(files) == 0 {
		slog.Warn("no HTML templates found, serving views as JSON", "path", dir)
		return false
	}

	funcMap := template.FuncMap{
		// stored text fields are HTML-escaped on submission
		"sanitized": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(funcMap).ParseFiles(files...)))
	return true
}
