package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"hypotest/app"
	"hypotest/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App serves the HTML report pages
type App struct {
	router    *chi.Mux
	service   *app.HypothesisService
	templates *template.Template
	logger    *internal.Logger
}

// NewApp creates the report pages application
func NewApp(service *app.HypothesisService, logger *internal.Logger) (*App, error) {
	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		logger:    logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/reports", a.handleIndex)
	a.router.Get("/reports/", a.handleIndex)
	a.router.Get("/reports/{id}", a.handleReport)
}

// ServeHTTP implements http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
