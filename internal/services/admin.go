package services

import (
	"context"
	"maps"
	"slices"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/internal/repository"
)

// AdminService handles manual point corrections
type AdminService struct {
	log         logger.Logger
	repo        repository.PointsRepository
	scoreboard  ScoreboardServicer
	registry    *betting.Registry
	min, max    int
	broadcaster Broadcaster
	recorder    Recorder
}

// NewAdminService creates a new AdminService. Overrides are clamped to [min, max].
func NewAdminService(log logger.Logger, repo repository.PointsRepository, scoreboard ScoreboardServicer, reg *betting.Registry, min, max int) *AdminService {
	return &AdminService{
		log:        log,
		repo:       repo,
		scoreboard: scoreboard,
		registry:   reg,
		min:        min,
		max:        max,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *AdminService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRecorder sets the metrics recorder
func (s *AdminService) SetRecorder(r Recorder) {
	s.recorder = r
}

// OverridePoints sets absolute points for the given classes and returns the
// values actually stored after clamping. Classes not given are unchanged.
func (s *AdminService) OverridePoints(ctx context.Context, points map[string]int) (map[string]int, error) {
	if len(points) == 0 {
		return nil, ErrNoPoints
	}

	applied := make(map[string]int, len(points))
	for _, class := range slices.Sorted(maps.Keys(points)) {
		if !s.registry.Contains(class) {
			return nil, &betting.UnknownClassError{Class: class}
		}
		applied[class] = betting.ClampPoints(points[class], s.min, s.max)
	}

	if err := s.repo.UpdatePoints(ctx, applied); err != nil {
		s.log.Error("Failed to write overridden points", "error", err)
		return nil, storageError(err)
	}

	if s.recorder != nil {
		s.recorder.RecordOverride()
		s.recorder.SetPoints(applied)
	}

	if s.broadcaster != nil {
		board, err := s.scoreboard.Board(ctx)
		if err != nil {
			s.log.Warn("Failed to load board for broadcast", "error", err)
		} else {
			s.broadcaster.BroadcastBoard(board)
		}
	}

	s.log.Info("Points overridden", "classes", len(applied))
	return applied, nil
}
