package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/logger"
	"github.com/abrezinsky/classbet/internal/models"
	"github.com/abrezinsky/classbet/internal/repository"
)

// SettlementResult is returned to the caller and pushed to live clients
type SettlementResult struct {
	Round     models.RoundSummary        `json:"round"`
	Points    map[string]int             `json:"points"`
	Outcomes  map[string]betting.Outcome `json:"outcomes"`
	Standings []betting.Standing         `json:"standings"`
}

// SettlementService runs one betting round against the points store
type SettlementService struct {
	log         logger.Logger
	repo        repository.PointsRepository
	settings    SettingsServicer
	scoreboard  ScoreboardServicer
	registry    *betting.Registry
	baselines   map[string]int
	maxBet      int
	broadcaster Broadcaster
	recorder    Recorder

	now   func() time.Time
	newID func() string
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(log logger.Logger, repo repository.PointsRepository, settings SettingsServicer, scoreboard ScoreboardServicer, reg *betting.Registry, baselines map[string]int, maxBet int) *SettlementService {
	return &SettlementService{
		log:        log,
		repo:       repo,
		settings:   settings,
		scoreboard: scoreboard,
		registry:   reg,
		baselines:  baselines,
		maxBet:     maxBet,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *SettlementService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetRecorder sets the metrics recorder
func (s *SettlementService) SetRecorder(r Recorder) {
	s.recorder = r
}

// Settle validates the bets and winners, computes the new points and
// persists them in one write. Nothing is written unless every check passes.
func (s *SettlementService) Settle(ctx context.Context, bets []betting.Bet, winners map[string]string) (*SettlementResult, error) {
	ledger, err := betting.NewLedger(s.registry, s.maxBet, bets)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	current, err := s.repo.GetAllPoints(ctx)
	if err != nil {
		s.reject(err)
		return nil, storageError(err)
	}

	result, err := betting.Settle(s.registry, current, ledger, winners)
	if err != nil {
		s.reject(err)
		return nil, err
	}

	if err := s.repo.UpdatePoints(ctx, result.Points); err != nil {
		s.log.Error("Failed to write settled points", "error", err)
		return nil, storageError(err)
	}

	round := s.summarize(result, winners)
	if err := s.settings.RecordRound(ctx, round); err != nil {
		// Points are already committed
		s.log.Warn("Failed to record round summary", "round", round.ID, "error", err)
	}

	settled := &SettlementResult{
		Round:     round,
		Points:    result.Points,
		Outcomes:  result.Outcomes,
		Standings: betting.Standings(s.registry, result.Points, s.baselines),
	}

	if s.recorder != nil {
		kinds := make(map[string]string, len(result.Outcomes))
		for class, o := range result.Outcomes {
			kinds[class] = o.Kind.String()
		}
		s.recorder.RecordRound(kinds)
		s.recorder.SetPoints(result.Points)
	}

	s.broadcast(ctx, settled)

	s.log.Info("Round settled",
		"round", round.ID,
		"won", round.Won,
		"lost", round.Lost,
		"no_bet", round.NoBet)

	return settled, nil
}

func (s *SettlementService) summarize(result *betting.Result, winners map[string]string) models.RoundSummary {
	round := models.RoundSummary{
		ID:        s.newID(),
		SettledAt: s.now().UTC(),
		Winners:   make(map[string]string, len(winners)),
	}
	for cat, class := range winners {
		round.Winners[cat] = class
	}
	for _, o := range result.Outcomes {
		switch o.Kind {
		case betting.Won:
			round.Won++
		case betting.Lost:
			round.Lost++
		default:
			round.NoBet++
		}
	}
	return round
}

func (s *SettlementService) reject(err error) {
	reason := RejectReason(err)
	if reason == "other" {
		s.log.Error("Settlement failed", "error", err)
		return
	}
	s.log.Debug("Settlement rejected", "reason", reason, "error", err)
	if s.recorder != nil {
		s.recorder.RecordRejected(reason)
	}
}

func (s *SettlementService) broadcast(ctx context.Context, settled *SettlementResult) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastSettlement(settled)

	board, err := s.scoreboard.Board(ctx)
	if err != nil {
		s.log.Warn("Failed to load board for broadcast", "error", err)
		return
	}
	s.broadcaster.BroadcastBoard(board)
}
