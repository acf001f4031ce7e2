package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/classbet/internal/auth"
	"github.com/abrezinsky/classbet/internal/metrics"
	"github.com/abrezinsky/classbet/internal/services"
	"github.com/abrezinsky/classbet/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Pinger reports whether the points store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index       *template.Template
	AdminLogin  *template.Template
	AdminPoints *template.Template
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Scoreboard   services.ScoreboardServicer
	Settlement   services.SettlementServicer
	Admin        services.AdminServicer
	Settings     services.SettingsServicer
	Store        Pinger
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Metrics      *metrics.Metrics
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	scoreboard services.ScoreboardServicer,
	settlement services.SettlementServicer,
	admin services.AdminServicer,
	settings services.SettingsServicer,
	store Pinger,
	templatesFS fs.FS,
	staticServer http.Handler,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	m *metrics.Metrics,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Scoreboard:   scoreboard,
		Settlement:   settlement,
		Admin:        admin,
		Settings:     settings,
		Store:        store,
		Auth:         adminAuth,
		Hub:          hub,
		Metrics:      m,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(
	scoreboard services.ScoreboardServicer,
	settlement services.SettlementServicer,
	admin services.AdminServicer,
	settings services.SettingsServicer,
	store Pinger,
) *Handlers {
	// Create a test auth with a known password
	testAuth := auth.New("test-password")
	return &Handlers{
		Scoreboard: scoreboard,
		Settlement: settlement,
		Admin:      admin,
		Settings:   settings,
		Store:      store,
		Auth:       testAuth,
		Log:        NoopHTTPLogger{},
		// templates left nil - API endpoints don't use templates
	}
}

// templateFuncs are available to every page
var templateFuncs = template.FuncMap{
	"signed": func(v int) string {
		if v > 0 {
			return fmt.Sprintf("+%d", v)
		}
		return fmt.Sprintf("%d", v)
	},
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.New("index.html").Funcs(templateFuncs).ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.AdminLogin, err = template.ParseFS(templatesFS, "admin/login.html"); err != nil {
		return nil, fmt.Errorf("admin login template: %w", err)
	}
	if t.AdminPoints, err = template.New("layout.html").Funcs(templateFuncs).ParseFS(templatesFS, "admin/layout.html", "admin/points.html"); err != nil {
		return nil, fmt.Errorf("admin points template: %w", err)
	}

	return t, nil
}
