package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"titanicdash/internal"
	"titanicdash/internal/pipeline"
	"titanicdash/internal/session"
	"titanicdash/ports"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard web application
type App struct {
	router    *chi.Mux
	config    Config
	pipeline  *pipeline.Pipeline
	sessions  *session.Store
	exporter  ports.TableExporter
	templates *template.Template
	intro     template.HTML
	logger    *internal.Logger
	server    *http.Server
}

// Config holds UI application configuration
type Config struct {
	Port          string
	SourceURL     string
	Title         string
	IntroMarkdown string
	HistogramBins int
	DefaultRows   int
	DefaultClass  int
	SessionTTL    time.Duration
}

// NewApp creates the dashboard. The pipeline owns dataset loading; the app
// owns widget state and rendering.
func NewApp(config Config, p *pipeline.Pipeline, exporter ports.TableExporter, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.HistogramBins <= 0 {
		config.HistogramBins = 20
	}
	if config.DefaultRows <= 0 {
		config.DefaultRows = 10
	}
	if config.DefaultClass == 0 {
		config.DefaultClass = 1
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		config:    config,
		pipeline:  p,
		exporter:  exporter,
		templates: templates,
		intro:     RenderMarkdown(config.IntroMarkdown),
		logger:    logger.With("UI"),
		sessions: session.NewStore(session.WidgetState{
			Class: config.DefaultClass,
			Rows:  config.DefaultRows,
		}, config.SessionTTL, logger),
	}

	if err := app.setupMiddleware(); err != nil {
		return nil, err
	}
	app.setupRoutes()

	app.server = &http.Server{
		Addr:              ":" + config.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() error {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
	a.router.Use(a.withSession)

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to open static files: %w", err)
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return nil
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/healthz", a.handleHealth)
	a.router.Get("/export.xlsx", a.handleExport)
	a.router.NotFound(a.handleNotFound)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/summary", a.handleSummary)
		r.Get("/charts", a.handleCharts)
		r.Get("/head", a.handleHead)
		r.Get("/filter/class/{class}", a.handleFilterClass)
		r.Get("/filter/age", a.handleFilterAge)
	})
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.router
}

// Sessions returns the widget state store
func (a *App) Sessions() *session.Store {
	return a.sessions
}

// Start serves HTTP until the server is shut down
func (a *App) Start() error {
	stop := make(chan struct{})
	defer close(stop)
	if a.config.SessionTTL > 0 {
		go a.sessions.RunCleanup(a.config.SessionTTL/2, stop)
	}

	a.logger.Info("starting dashboard on %s", a.server.Addr)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
