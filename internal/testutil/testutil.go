package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() { repo.Close() })

	return repo
}

// NewSeededRepository returns a test repository with a zero points row for
// every class in reg.
func NewSeededRepository(t *testing.T, reg *betting.Registry) *repository.Repository {
	t.Helper()

	repo := NewTestRepository(t)
	if err := repo.InitializePoints(context.Background(), reg.Classes()); err != nil {
		t.Fatalf("failed to initialize points: %v", err)
	}
	return repo
}

// TestRegistry is a two-category registry used across service and handler tests.
func TestRegistry(t *testing.T) *betting.Registry {
	t.Helper()

	reg, err := betting.NewRegistry([]betting.Category{
		{Name: "Kategorie 3", Classes: []string{"3.A", "3.B", "3.C"}},
		{Name: "Kategorie 4", Classes: []string{"4.A", "4.B"}},
	})
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return reg
}

// NewTestLogger returns a logger that discards output.
func NewTestLogger() logger.Logger {
	return logger.NewWithOptions(io.Discard, logger.FormatText, slog.LevelError)
}
