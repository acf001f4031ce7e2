package services_test

import (
	"context"
	"testing"

	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/repository"
	"github.com/abrezinsky/classbet/internal/repository/mock"
	"github.com/abrezinsky/classbet/internal/services"
	"github.com/abrezinsky/classbet/internal/testutil"
)

type fakeBroadcaster struct {
	boards      []*services.Board
	settlements []*services.SettlementResult
}

func (b *fakeBroadcaster) BroadcastBoard(board *services.Board) {
	b.boards = append(b.boards, board)
}

func (b *fakeBroadcaster) BroadcastSettlement(result *services.SettlementResult) {
	b.settlements = append(b.settlements, result)
}

type fakeRecorder struct {
	rounds    int
	outcomes  map[string]int
	rejected  map[string]int
	overrides int
	points    map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		outcomes: make(map[string]int),
		rejected: make(map[string]int),
		points:   make(map[string]int),
	}
}

func (r *fakeRecorder) RecordRound(outcomes map[string]string) {
	r.rounds++
	for _, kind := range outcomes {
		r.outcomes[kind]++
	}
}

func (r *fakeRecorder) RecordRejected(reason string) { r.rejected[reason]++ }
func (r *fakeRecorder) RecordOverride()              { r.overrides++ }

func (r *fakeRecorder) SetPoints(points map[string]int) {
	for class, v := range points {
		r.points[class] = v
	}
}

// fixture wires every service over one seeded in-memory repository
type fixture struct {
	reg        *betting.Registry
	real       *repository.Repository
	repo       *mock.Repository
	settings   *services.SettingsService
	scoreboard *services.ScoreboardService
	settlement *services.SettlementService
	admin      *services.AdminService
	bc         *fakeBroadcaster
	rec        *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithBaselines(t, nil)
}

func newFixtureWithBaselines(t *testing.T, baselines map[string]int) *fixture {
	t.Helper()

	reg := testutil.TestRegistry(t)
	real := testutil.NewSeededRepository(t, reg)
	repo := mock.NewRepository(real)
	log := testutil.NewTestLogger()

	limits := services.Limits{MaxBet: betting.DefaultMaxBet, OverrideMin: -999, OverrideMax: 999}
	settings := services.NewSettingsService(log, repo)
	scoreboard := services.NewScoreboardService(log, repo, settings, reg, baselines, limits)
	settlement := services.NewSettlementService(log, repo, settings, scoreboard, reg, baselines, limits.MaxBet)
	admin := services.NewAdminService(log, repo, scoreboard, reg, limits.OverrideMin, limits.OverrideMax)

	bc := &fakeBroadcaster{}
	rec := newFakeRecorder()
	scoreboard.SetRecorder(rec)
	settlement.SetBroadcaster(bc)
	settlement.SetRecorder(rec)
	admin.SetBroadcaster(bc)
	admin.SetRecorder(rec)

	return &fixture{
		reg:        reg,
		real:       real,
		repo:       repo,
		settings:   settings,
		scoreboard: scoreboard,
		settlement: settlement,
		admin:      admin,
		bc:         bc,
		rec:        rec,
	}
}

// seed overwrites the stored points
func (f *fixture) seed(t *testing.T, points map[string]int) {
	t.Helper()
	if err := f.real.UpdatePoints(context.Background(), points); err != nil {
		t.Fatalf("failed to seed points: %v", err)
	}
}

func (f *fixture) points(t *testing.T) map[string]int {
	t.Helper()
	points, err := f.real.GetAllPoints(context.Background())
	if err != nil {
		t.Fatalf("GetAllPoints failed: %v", err)
	}
	return points
}

// abstain returns a zero bet for every class in the registry
func abstain(reg *betting.Registry) []betting.Bet {
	var bets []betting.Bet
	for _, class := range reg.Classes() {
		bets = append(bets, betting.Bet{Class: class})
	}
	return bets
}

// withBets replaces the bets of the given classes
func withBets(bets []betting.Bet, overrides ...betting.Bet) []betting.Bet {
	out := append([]betting.Bet(nil), bets...)
	for _, o := range overrides {
		for i := range out {
			if out[i].Class == o.Class {
				out[i] = o
			}
		}
	}
	return out
}

var testWinners = map[string]string{"Kategorie 3": "3.B", "Kategorie 4": "4.A"}
