package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abrezinsky/classbet/internal/app"
	"github.com/abrezinsky/classbet/internal/auth"
	"github.com/abrezinsky/classbet/internal/browser"
	"github.com/abrezinsky/classbet/internal/config"
	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/web"
)

var (
	version = "dev"
)

const shutdownTimeout = 5 * time.Second

const usage = `ClassBet - class betting scoreboard

Usage:
  classbet [options]

Options:
  -port int        HTTP server port (default 8501)
  -db string       SQLite database path (default "classbet.db")
  -adminpw str     Admin passphrase (default "G26")
  -loglevel str    Log level: debug, info, warn, error (default "info")
  -logformat str   Log format: text, json (default "text")
  -maxbet int      Largest bet per class and round (default 5)
  -baselines str   Profit/loss baselines, e.g. "3.A=5,3.B=-2"
  -env string      Environment file to load (default ".env")
  -nologo          Skip the startup banner
  -nobrowser       Do not open the board in a browser on start
  -nokeyboard      Disable keyboard shortcuts
  -version         Show version and exit
  -help            Show this help message

Every option except -env can also be set with a CLASSBET_* environment
variable (CLASSBET_PORT, CLASSBET_DB, CLASSBET_ADMIN_PASSWORD,
CLASSBET_LOG_LEVEL, CLASSBET_LOG_FORMAT, CLASSBET_MAX_BET,
CLASSBET_BASELINES). Flags win over the environment.

Keyboard Shortcuts (when enabled):
  b                Open board in browser
  a                Open admin page in browser
  h                Toggle HTTP request logging
  l                Cycle log level (debug → info → warn → error)
  q                Quit server
  ?                Show keyboard help

Examples:
  classbet                           # Run on port 8501 with classbet.db
  classbet -port 8080 -nobrowser     # Headless on port 8080
  classbet -db /data/school.db       # Use custom database path
  classbet -adminpw secret123        # Use specific admin passphrase

`

func main() {
	os.Exit(run(os.Args[1:]))
}

// flags holds the command line after parsing
type flags struct {
	envFile    string
	port       int
	dbPath     string
	adminPw    string
	logLevel   string
	logFormat  string
	maxBet     int
	baselines  string
	noLogo     bool
	noBrowser  bool
	noKeyboard bool
	version    bool
	set        map[string]bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("classbet", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	fs.StringVar(&f.envFile, "env", ".env", "Environment file to load")
	fs.IntVar(&f.port, "port", config.DefaultPort, "HTTP server port")
	fs.StringVar(&f.dbPath, "db", config.DefaultDBPath, "SQLite database path")
	fs.StringVar(&f.adminPw, "adminpw", config.DefaultAdminPassword, "Admin passphrase")
	fs.StringVar(&f.logLevel, "loglevel", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "logformat", "text", "Log format (text, json)")
	fs.IntVar(&f.maxBet, "maxbet", 5, "Largest bet per class and round")
	fs.StringVar(&f.baselines, "baselines", "", "Profit/loss baselines, e.g. 3.A=5,3.B=-2")
	fs.BoolVar(&f.noLogo, "nologo", false, "Skip the startup banner")
	fs.BoolVar(&f.noBrowser, "nobrowser", false, "Do not open the board in a browser")
	fs.BoolVar(&f.noKeyboard, "nokeyboard", false, "Disable keyboard shortcuts")
	fs.BoolVar(&f.version, "version", false, "Show version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply overrides cfg with every flag given explicitly on the command line
func (f *flags) apply(cfg config.Config) (config.Config, error) {
	if f.set["port"] {
		cfg.Port = f.port
	}
	if f.set["db"] {
		cfg.DBPath = f.dbPath
	}
	if f.set["adminpw"] {
		cfg.AdminPassword = f.adminPw
	}
	if f.set["loglevel"] {
		cfg.LogLevel = f.logLevel
	}
	if f.set["logformat"] {
		cfg.LogFormat = f.logFormat
	}
	if f.set["maxbet"] {
		cfg.MaxBet = f.maxBet
	}
	if f.set["baselines"] {
		overrides, err := config.ParseBaselines(f.baselines)
		if err != nil {
			return cfg, fmt.Errorf("-baselines: %w", err)
		}
		baselines := cfg.BaselinesCopy()
		for class, v := range overrides {
			baselines[class] = v
		}
		cfg.Baselines = baselines
	}
	return cfg, nil
}

func run(args []string) int {
	f, err := parseFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Printf("classbet %s\n", version)
		return 0
	}

	cfg, err := config.Load(f.envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 2
	}
	if cfg, err = f.apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid option: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return 2
	}

	if !f.noLogo {
		showLogo(os.Stdout)
	}

	appLog := logger.NewWithOptions(os.Stdout, logger.ParseFormat(cfg.LogFormat), logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(appLog.Slog())

	a, err := app.New(appLog, cfg, web.GetTemplatesFS(), web.GetStaticFS(), auth.New(cfg.AdminPassword))
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer a.Close()

	addr := fmt.Sprintf(":%d", cfg.Port)
	boardURL := fmt.Sprintf("http://localhost:%d/", cfg.Port)
	adminURL := boardURL + "admin"
	appLog.Info("Admin passphrase", "passphrase", cfg.AdminPassword)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	quit := make(chan struct{}, 1)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	opener := browser.NewOpener()

	if !f.noKeyboard {
		restore, err := enableRawMode(int(os.Stdin.Fd()))
		if err != nil {
			appLog.Warn("Keyboard shortcuts unavailable", "error", err)
		} else {
			defer restore()
			printKeyboardHelp(os.Stdout)
			c := &console{
				boardURL: boardURL,
				adminURL: adminURL,
				log:      appLog,
				open:     opener.Open,
				out:      os.Stdout,
				quit:     quit,
			}
			go c.run(os.Stdin)
		}
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled (use -nokeyboard=false to enable)%s\n\n", yellow, reset)
	}

	if !f.noBrowser {
		// Wait a moment for the listener before opening the board
		time.Sleep(100 * time.Millisecond)
		if err := opener.Open(boardURL); err != nil {
			appLog.Warn("Failed to open browser", "error", err)
		}
	}

	select {
	case err := <-serverErr:
		if err != nil {
			appLog.Error("Server failed", "error", err)
			return 1
		}
		return 0
	case sig := <-signals:
		appLog.Info("Received signal", "signal", sig.String())
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		appLog.Error("Shutdown failed", "error", err)
		return 1
	}
	appLog.Info("Server stopped")
	return 0
}
