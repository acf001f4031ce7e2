package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/classbet/internal/auth"
	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/handlers"
	"github.com/abrezinsky/classbet/internal/metrics"
	"github.com/abrezinsky/classbet/internal/repository/mock"
	"github.com/abrezinsky/classbet/internal/services"
	"github.com/abrezinsky/classbet/internal/testutil"
	"github.com/abrezinsky/classbet/internal/websocket"
)

type testSetup struct {
	handlers   *handlers.Handlers
	router     chi.Router
	reg        *betting.Registry
	repo       *mock.Repository
	settings   *services.SettingsService
	scoreboard *services.ScoreboardService
	settlement *services.SettlementService
	admin      *services.AdminService
	metrics    *metrics.Metrics
	authCookie *http.Cookie
}

type testServices struct {
	reg        *betting.Registry
	repo       *mock.Repository
	settings   *services.SettingsService
	scoreboard *services.ScoreboardService
	settlement *services.SettlementService
	admin      *services.AdminService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	reg := testutil.TestRegistry(t)
	repo := mock.NewRepository(testutil.NewSeededRepository(t, reg))
	log := testutil.NewTestLogger()

	limits := services.Limits{MaxBet: betting.DefaultMaxBet, OverrideMin: -999, OverrideMax: 999}
	settings := services.NewSettingsService(log, repo)
	scoreboard := services.NewScoreboardService(log, repo, settings, reg, nil, limits)
	settlement := services.NewSettlementService(log, repo, settings, scoreboard, reg, nil, limits.MaxBet)
	admin := services.NewAdminService(log, repo, scoreboard, reg, limits.OverrideMin, limits.OverrideMax)

	return &testServices{
		reg:        reg,
		repo:       repo,
		settings:   settings,
		scoreboard: scoreboard,
		settlement: settlement,
		admin:      admin,
	}
}

// newTestSetup creates handlers without templates for API tests
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	svc := newTestServices(t)
	h := handlers.NewForTesting(svc.scoreboard, svc.settlement, svc.admin, svc.settings, svc.repo)
	h.Metrics = metrics.New()

	svc.settlement.SetRecorder(h.Metrics)
	svc.admin.SetRecorder(h.Metrics)

	token, ok := h.Auth.Login("test-password")
	if !ok {
		t.Fatal("failed to log in with test password")
	}

	return &testSetup{
		handlers:   h,
		router:     h.Router(),
		reg:        svc.reg,
		repo:       svc.repo,
		settings:   svc.settings,
		scoreboard: svc.scoreboard,
		settlement: svc.settlement,
		admin:      svc.admin,
		metrics:    h.Metrics,
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

func createTestTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html": &fstest.MapFile{Data: []byte(
			`<html><body><h1>Board</h1>{{range .Board.Standings}}<p>{{.Class}}={{.Points}} {{signed .ProfitLoss}}</p>{{end}}</body></html>`)},
		"admin/login.html": &fstest.MapFile{Data: []byte(
			`<html><body><h1>Login Page</h1>{{if .Error}}<p>{{.Error}}</p>{{end}}</body></html>`)},
		"admin/layout.html": &fstest.MapFile{Data: []byte(
			`{{define "admin"}}<html><body><h1>{{.PageTitle}}</h1>{{template "content" .}}</body></html>{{end}}`)},
		"admin/points.html": &fstest.MapFile{Data: []byte(
			`{{define "content"}}<div>base={{.BaseURL}}</div>{{range .Board.Standings}}<input name="{{.Class}}" value="{{.Points}}">{{end}}{{end}}`)},
	}
}

// newTestSetupWithTemplates creates fully wired handlers including templates and the hub
func newTestSetupWithTemplates(t *testing.T) *testSetup {
	t.Helper()

	svc := newTestServices(t)
	adminAuth := auth.New("test-password")
	hub := websocket.New(testutil.NewTestLogger(), svc.scoreboard)
	m := metrics.New()

	h, err := handlers.New(
		svc.scoreboard,
		svc.settlement,
		svc.admin,
		svc.settings,
		svc.repo,
		createTestTemplatesFS(),
		handlers.NewStaticServer(fstest.MapFS{
			"css/style.css": &fstest.MapFile{Data: []byte(`body{}`)},
		}),
		adminAuth,
		hub,
		m,
		handlers.NoopHTTPLogger{},
	)
	if err != nil {
		t.Fatalf("failed to create handlers: %v", err)
	}

	token, _ := adminAuth.Login("test-password")

	return &testSetup{
		handlers:   h,
		router:     h.Router(),
		reg:        svc.reg,
		repo:       svc.repo,
		settings:   svc.settings,
		scoreboard: svc.scoreboard,
		settlement: svc.settlement,
		admin:      svc.admin,
		metrics:    m,
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
	}
}

// do sends a request through the router; body is JSON-encoded unless it is a string
func (s *testSetup) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// abstainAll returns a request with a zero bet for every class
func abstainAll(reg *betting.Registry) handlers.SettleRequest {
	req := handlers.SettleRequest{
		Winners: map[string]string{"Kategorie 3": "3.B", "Kategorie 4": "4.A"},
	}
	for _, class := range reg.Classes() {
		req.Bets = append(req.Bets, betting.Bet{Class: class})
	}
	return req
}

// withBet replaces the bet of one class
func withBet(req handlers.SettleRequest, bet betting.Bet) handlers.SettleRequest {
	bets := make([]betting.Bet, len(req.Bets))
	copy(bets, req.Bets)
	for i := range bets {
		if bets[i].Class == bet.Class {
			bets[i] = bet
		}
	}
	req.Bets = bets
	return req
}

func doRouter(router http.Handler, method, path string) *httptest.ResponseRecorder {
	return doRouterWithCookie(router, method, path, nil)
}

func doRouterWithCookie(router http.Handler, method, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
