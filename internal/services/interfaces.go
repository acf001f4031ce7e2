package services

import (
	"context"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/models"
)

// ScoreboardServicer defines the interface for reading the board
type ScoreboardServicer interface {
	Initialize(ctx context.Context) error
	Board(ctx context.Context) (*Board, error)
	BoardQR(ctx context.Context) ([]byte, error)
}

// SettlementServicer defines the interface for settling a round
type SettlementServicer interface {
	Settle(ctx context.Context, bets []betting.Bet, winners map[string]string) (*SettlementResult, error)
}

// AdminServicer defines the interface for admin point overrides
type AdminServicer interface {
	OverridePoints(ctx context.Context, points map[string]int) (map[string]int, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	LastRound(ctx context.Context) (*models.RoundSummary, error)
	RecordRound(ctx context.Context, round models.RoundSummary) error
}

// Broadcaster defines the interface for pushing updates to connected clients
type Broadcaster interface {
	BroadcastBoard(board *Board)
	BroadcastSettlement(result *SettlementResult)
}

// Recorder receives settlement and override counts
type Recorder interface {
	RecordRound(outcomes map[string]string)
	RecordRejected(reason string)
	RecordOverride()
	SetPoints(points map[string]int)
}

// Ensure concrete types implement interfaces
var (
	_ ScoreboardServicer = (*ScoreboardService)(nil)
	_ SettlementServicer = (*SettlementService)(nil)
	_ AdminServicer      = (*AdminService)(nil)
	_ SettingsServicer   = (*SettingsService)(nil)
)
