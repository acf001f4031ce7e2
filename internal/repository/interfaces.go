package repository

import "context"

// PointsRepository is the durable class -> points store
type PointsRepository interface {
	InitializePoints(ctx context.Context, classes []string) error
	GetAllPoints(ctx context.Context) (map[string]int, error)
	GetPoints(ctx context.Context, class string) (int, error)
	UpdatePoints(ctx context.Context, points map[string]int) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
type FullRepository interface {
	PointsRepository
	SettingsRepository
	Ping(ctx context.Context) error
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
