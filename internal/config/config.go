// Package config builds the immutable application configuration from
// compiled-in defaults, an optional .env file and CLASSBET_* environment
// variables. Command-line flags are applied on top by main.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abrezinsky/classbet/internal/betting"
)

// Defaults
const (
	DefaultPort          = 8501
	DefaultDBPath        = "classbet.db"
	DefaultAdminPassword = "G26"
	DefaultOverrideMin   = -999
	DefaultOverrideMax   = 999
)

// Config is constructed once at startup and not modified afterwards
type Config struct {
	Port          int
	DBPath        string
	AdminPassword string
	LogLevel      string
	LogFormat     string

	MaxBet      int
	OverrideMin int
	OverrideMax int

	Categories []betting.Category
	// Baselines is the per-class reference for profit/loss; missing classes use 0
	Baselines map[string]int
}

// DefaultCategories returns the four school categories
func DefaultCategories() []betting.Category {
	return []betting.Category{
		{Name: "Kategorie I.", Classes: []string{"1.G", "2.G", "3.G", "4.G"}},
		{Name: "Kategorie II.", Classes: []string{"5.G", "1.A", "1.B", "1.C"}},
		{Name: "Kategorie III.", Classes: []string{"6.G", "2.A", "2.B", "2.C"}},
		{Name: "Kategorie IV.", Classes: []string{"3.A", "3.B", "3.C"}},
	}
}

// Default returns the compiled-in configuration
func Default() Config {
	baselines := make(map[string]int)
	for _, cat := range DefaultCategories() {
		for _, class := range cat.Classes {
			baselines[class] = 0
		}
	}

	return Config{
		Port:          DefaultPort,
		DBPath:        DefaultDBPath,
		AdminPassword: DefaultAdminPassword,
		LogLevel:      "info",
		LogFormat:     "text",
		MaxBet:        betting.DefaultMaxBet,
		OverrideMin:   DefaultOverrideMin,
		OverrideMax:   DefaultOverrideMax,
		Categories:    DefaultCategories(),
		Baselines:     baselines,
	}
}

// Load returns the defaults overridden by the environment. If envFile
// exists it is loaded first; variables already set in the process win.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(Default(), os.LookupEnv)
}

// FromEnv applies CLASSBET_* variables found by lookup on top of base
func FromEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	cfg := base
	var err error

	if v, ok := lookup("CLASSBET_PORT"); ok {
		if cfg.Port, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("CLASSBET_PORT: %w", err)
		}
	}
	if v, ok := lookup("CLASSBET_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup("CLASSBET_ADMIN_PASSWORD"); ok {
		cfg.AdminPassword = v
	}
	if v, ok := lookup("CLASSBET_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("CLASSBET_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup("CLASSBET_MAX_BET"); ok {
		if cfg.MaxBet, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("CLASSBET_MAX_BET: %w", err)
		}
	}
	if v, ok := lookup("CLASSBET_BASELINES"); ok {
		overrides, err := ParseBaselines(v)
		if err != nil {
			return Config{}, fmt.Errorf("CLASSBET_BASELINES: %w", err)
		}
		baselines := make(map[string]int, len(cfg.Baselines))
		for class, v := range cfg.Baselines {
			baselines[class] = v
		}
		for class, v := range overrides {
			baselines[class] = v
		}
		cfg.Baselines = baselines
	}

	return cfg, nil
}

// ParseBaselines parses "3.A=5,3.B=-2" into a class -> baseline map
func ParseBaselines(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		class, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected class=value, got %q", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("baseline for %q: %w", class, err)
		}
		out[strings.TrimSpace(class)] = n
	}
	return out, nil
}

// Validate checks ranges and that every baseline names a known class
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is empty")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("admin password is empty")
	}
	if c.MaxBet < 1 {
		return fmt.Errorf("max bet must be at least 1, got %d", c.MaxBet)
	}
	if c.OverrideMin > c.OverrideMax {
		return fmt.Errorf("override range [%d, %d] is empty", c.OverrideMin, c.OverrideMax)
	}

	reg, err := c.Registry()
	if err != nil {
		return err
	}
	for class := range c.Baselines {
		if !reg.Contains(class) {
			return &betting.UnknownClassError{Class: class}
		}
	}
	return nil
}

// Registry builds the category registry from the configured categories
func (c Config) Registry() (*betting.Registry, error) {
	return betting.NewRegistry(c.Categories)
}

// BaselinesCopy returns a copy of the baseline table
func (c Config) BaselinesCopy() map[string]int {
	out := make(map[string]int, len(c.Baselines))
	for class, v := range c.Baselines {
		out[class] = v
	}
	return out
}
