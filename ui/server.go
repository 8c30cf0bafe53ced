package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"funnelboard/domain/funnel"
	"funnelboard/internal"
	"funnelboard/internal/pipeline"
	"funnelboard/ui/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedFiles embed.FS

// Server is the dashboard web server. The dataset and its options are set
// once in NewServer and only read afterwards.
type Server struct {
	router    *gin.Engine
	dataset   *funnel.Dataset
	options   funnel.Options
	templates *template.Template
	log       *internal.Logger
}

// NewServer builds the router for a loaded dataset.
func NewServer(ds *funnel.Dataset, logger *internal.Logger) (*Server, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		dataset:   ds,
		options:   pipeline.ExtractOptions(ds),
		templates: templates,
		log:       logger.With("Server"),
	}

	for _, dim := range funnel.Dimensions() {
		s.log.Debug("%s: %d options", dim, len(s.options[dim]))
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		s.log.Error("static filesystem unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/dashboard", s.handleDashboardFragment)
	api.GET("/funnel", s.handleFunnelJSON)
	api.GET("/options", s.handleOptions)
	api.GET("/export.xlsx", s.handleExport)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.log.Info("Serving %d rows from %s on http://%s", s.dataset.Len(), s.dataset.Source(), addr)
	return s.router.Run(addr)
}
