package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/classbet/internal/auth"
	"github.com/abrezinsky/classbet/internal/config"
	"github.com/abrezinsky/classbet/internal/handlers"
	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/internal/metrics"
	"github.com/abrezinsky/classbet/internal/repository"
	"github.com/abrezinsky/classbet/internal/services"
	"github.com/abrezinsky/classbet/internal/websocket"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	settings *services.SettingsService
	hub      *websocket.Hub
	metrics  *metrics.Metrics

	mu     sync.Mutex
	server *http.Server
}

// New opens the points store, seeds a row for every configured class and
// wires services, the websocket hub and HTTP handlers.
func New(log logger.Logger, cfg config.Config, templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid categories: %w", err)
	}

	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	limits := services.Limits{
		MaxBet:      cfg.MaxBet,
		OverrideMin: cfg.OverrideMin,
		OverrideMax: cfg.OverrideMax,
	}
	baselines := cfg.BaselinesCopy()

	// Initialize services
	settingsService := services.NewSettingsService(log, repo)
	scoreboardService := services.NewScoreboardService(log, repo, settingsService, reg, baselines, limits)
	settlementService := services.NewSettlementService(log, repo, settingsService, scoreboardService, reg, baselines, limits.MaxBet)
	adminService := services.NewAdminService(log, repo, scoreboardService, reg, limits.OverrideMin, limits.OverrideMax)

	m := metrics.New()
	scoreboardService.SetRecorder(m)
	settlementService.SetRecorder(m)
	adminService.SetRecorder(m)

	if err := scoreboardService.Initialize(context.Background()); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize points: %w", err)
	}

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, scoreboardService)
	hub.Start()
	settlementService.SetBroadcaster(hub)
	adminService.SetBroadcaster(hub)

	// Create static file server
	staticServer := handlers.NewStaticServer(staticFS)

	h, err := handlers.New(
		scoreboardService,
		settlementService,
		adminService,
		settingsService,
		repo,
		templatesFS,
		staticServer,
		adminAuth,
		hub,
		m,
		log,
	)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
		settings: settingsService,
		hub:      hub,
		metrics:  m,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases the points store. It is safe to call more than once.
func (a *App) Close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
		a.repo = nil
	}
}

// Run starts the HTTP server and blocks until it stops. A server stopped by
// Shutdown returns nil.
func (a *App) Run(addr string) error {
	// Set default base URL if not configured, using detected LAN IP
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Admin URL", "url", baseURL+"/admin")

	server := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server, waiting for in-flight requests until ctx ends
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	server := a.server
	a.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base URL", "error", err)
		return
	}

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to set default base URL", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
