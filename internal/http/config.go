package http

import (
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/metrics"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  *catalog.Service
	Database Pinger

	// Optional; nil disables /metrics and recording
	Metrics *metrics.Recorder

	// UI paths. Without templates every view is delivered as JSON.
	TemplatesPath string
	StaticPath    string

	// CSRF protection for form posts, enabled when the secret is set
	CSRFSecret    []byte
	SecureCookies bool

	// Application info
	Version string
}
