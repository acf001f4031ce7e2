package services

import (
	"context"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/internal/models"
	"github.com/abrezinsky/classbet/internal/repository"
)

// Limits bounds bet amounts and admin overrides
type Limits struct {
	MaxBet      int `json:"max_bet"`
	OverrideMin int `json:"override_min"`
	OverrideMax int `json:"override_max"`
}

// Board is the scoreboard as shown on the main page
type Board struct {
	Categories []betting.Category   `json:"categories"`
	Standings  []betting.Standing   `json:"standings"`
	Limits     Limits               `json:"limits"`
	LastRound  *models.RoundSummary `json:"last_round,omitempty"`
}

// Points returns the current points keyed by class
func (b *Board) Points() map[string]int {
	points := make(map[string]int, len(b.Standings))
	for _, st := range b.Standings {
		points[st.Class] = st.Points
	}
	return points
}

// ScoreboardService assembles the board from stored points
type ScoreboardService struct {
	log       logger.Logger
	repo      repository.PointsRepository
	settings  SettingsServicer
	registry  *betting.Registry
	baselines map[string]int
	limits    Limits
	recorder  Recorder
}

// NewScoreboardService creates a new ScoreboardService
func NewScoreboardService(log logger.Logger, repo repository.PointsRepository, settings SettingsServicer, reg *betting.Registry, baselines map[string]int, limits Limits) *ScoreboardService {
	return &ScoreboardService{
		log:       log,
		repo:      repo,
		settings:  settings,
		registry:  reg,
		baselines: baselines,
		limits:    limits,
	}
}

// SetRecorder sets the metrics recorder
func (s *ScoreboardService) SetRecorder(r Recorder) {
	s.recorder = r
}

// Initialize makes sure every registered class has a points row
func (s *ScoreboardService) Initialize(ctx context.Context) error {
	classes := s.registry.Classes()
	if err := s.repo.InitializePoints(ctx, classes); err != nil {
		return err
	}

	points, err := s.repo.GetAllPoints(ctx)
	if err != nil {
		return err
	}
	if s.recorder != nil {
		s.recorder.SetPoints(points)
	}

	s.log.Info("Points initialized", "classes", len(classes), "categories", len(s.registry.AllCategories()))
	return nil
}

// Board returns categories, standings, limits and the last round
func (s *ScoreboardService) Board(ctx context.Context) (*Board, error) {
	points, err := s.repo.GetAllPoints(ctx)
	if err != nil {
		return nil, err
	}

	board := &Board{
		Categories: s.registry.Categories(),
		Standings:  betting.Standings(s.registry, points, s.baselines),
		Limits:     s.limits,
	}

	last, err := s.settings.LastRound(ctx)
	switch {
	case err == nil:
		board.LastRound = last
	case err == ErrNoRound:
	default:
		// The board is still useful without the summary
		s.log.Warn("Failed to load last round", "error", err)
	}

	return board, nil
}

// BoardQR returns a PNG QR code pointing at the board
func (s *ScoreboardService) BoardQR(ctx context.Context) ([]byte, error) {
	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	return qrcode.Encode(baseURL+"/", qrcode.Medium, 256)
}
