package mock

import (
	"context"

	"github.com/abrezinsky/classbet/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.UpdatePointsError = errors.New("database error")
//	svc := services.NewSettlementService(log, mockRepo, reg, 5)
//	_, err := svc.Settle(ctx, bets, winners)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Points Errors =====
	InitializePointsError error
	GetAllPointsError     error
	GetPointsError        error
	UpdatePointsError     error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error

	PingError error

	// UpdatePointsCalls counts calls that reached the wrapped repository
	UpdatePointsCalls int
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Points Methods =====

func (m *Repository) InitializePoints(ctx context.Context, classes []string) error {
	if m.InitializePointsError != nil {
		return m.InitializePointsError
	}
	return m.FullRepository.InitializePoints(ctx, classes)
}

func (m *Repository) GetAllPoints(ctx context.Context) (map[string]int, error) {
	if m.GetAllPointsError != nil {
		return nil, m.GetAllPointsError
	}
	return m.FullRepository.GetAllPoints(ctx)
}

func (m *Repository) GetPoints(ctx context.Context, class string) (int, error) {
	if m.GetPointsError != nil {
		return 0, m.GetPointsError
	}
	return m.FullRepository.GetPoints(ctx, class)
}

func (m *Repository) UpdatePoints(ctx context.Context, points map[string]int) error {
	if m.UpdatePointsError != nil {
		return m.UpdatePointsError
	}
	m.UpdatePointsCalls++
	return m.FullRepository.UpdatePoints(ctx, points)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) Ping(ctx context.Context) error {
	if m.PingError != nil {
		return m.PingError
	}
	return m.FullRepository.Ping(ctx)
}

// Ensure Repository implements FullRepository
var _ repository.FullRepository = (*Repository)(nil)
