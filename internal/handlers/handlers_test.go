package handlers_test

import (
	"context"
	"html"
	"net/http"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/abrezinsky/classbet/internal/auth"
	"github.com/abrezinsky/classbet/internal/betting"
	"github.com/abrezinsky/classbet/internal/handlers"
	"github.com/abrezinsky/classbet/internal/testutil"
	"github.com/abrezinsky/classbet/internal/websocket"
	"github.com/abrezinsky/classbet/web"
)

func TestNew_WithValidTemplates(t *testing.T) {
	svc := newTestServices(t)

	h, err := handlers.New(
		svc.scoreboard, svc.settlement, svc.admin, svc.settings, svc.repo,
		createTestTemplatesFS(),
		handlers.NewStaticServer(fstest.MapFS{}),
		auth.New("test-password"),
		nil, nil,
		handlers.NoopHTTPLogger{},
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if h == nil {
		t.Fatal("expected handlers to be created")
	}
}

func TestNew_MissingTemplates(t *testing.T) {
	tests := []struct {
		name    string
		missing string
	}{
		{"index", "index.html"},
		{"login", "admin/login.html"},
		{"layout", "admin/layout.html"},
		{"points", "admin/points.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(t)
			templatesFS := createTestTemplatesFS()
			delete(templatesFS, tt.missing)

			_, err := handlers.New(
				svc.scoreboard, svc.settlement, svc.admin, svc.settings, svc.repo,
				templatesFS,
				nil,
				auth.New("test-password"),
				nil, nil,
				handlers.NoopHTTPLogger{},
			)
			if err == nil {
				t.Errorf("expected error when %s is missing", tt.missing)
			}
		})
	}
}

func TestNew_InvalidTemplateSyntax(t *testing.T) {
	svc := newTestServices(t)
	templatesFS := createTestTemplatesFS()
	templatesFS["index.html"] = &fstest.MapFile{Data: []byte(`{{range .Board}`)}

	_, err := handlers.New(
		svc.scoreboard, svc.settlement, svc.admin, svc.settings, svc.repo,
		templatesFS, nil, auth.New("x"), nil, nil, handlers.NoopHTTPLogger{},
	)
	if err == nil {
		t.Error("expected error for invalid template")
	}
}

func TestIndexPage(t *testing.T) {
	setup := newTestSetupWithTemplates(t)
	if _, err := setup.admin.OverridePoints(context.Background(), map[string]int{"3.C": 4}); err != nil {
		t.Fatalf("OverridePoints failed: %v", err)
	}

	rec := setup.do(t, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	// html/template escapes the sign in text nodes
	body := rec.Body.String()
	if !strings.Contains(body, "3.C=4 &#43;4") {
		t.Errorf("expected escaped signed profit/loss for 3.C, got %s", body)
	}
	body = html.UnescapeString(body)
	if !strings.Contains(body, "3.C=4 +4") {
		t.Errorf("expected signed profit/loss for 3.C, got %s", body)
	}
	if !strings.Contains(body, "3.A=0 0") {
		t.Errorf("expected unsigned zero for 3.A, got %s", body)
	}
}

func TestStaticFiles(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	rec := setup.do(t, http.MethodGet, "/static/css/style.css", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestWebSocketRoute_RejectsPlainGET(t *testing.T) {
	setup := newTestSetupWithTemplates(t)

	// Without upgrade headers the handshake fails
	rec := setup.do(t, http.MethodGet, "/ws", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestRouter_WithoutHubOrMetrics(t *testing.T) {
	setup := newTestSetup(t)
	setup.handlers.Metrics = nil
	router := setup.handlers.Router()

	for _, path := range []string{"/ws", "/metrics"} {
		rec := doRouter(router, http.MethodGet, path)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

// TestEmbeddedTemplates renders the shipped templates end to end
func TestEmbeddedTemplates(t *testing.T) {
	svc := newTestServices(t)
	adminAuth := auth.New("G26")
	hub := websocket.New(testutil.NewTestLogger(), svc.scoreboard)

	h, err := handlers.New(
		svc.scoreboard, svc.settlement, svc.admin, svc.settings, svc.repo,
		web.GetTemplatesFS(),
		handlers.NewStaticServer(web.GetStaticFS()),
		adminAuth,
		hub, nil,
		handlers.NoopHTTPLogger{},
	)
	if err != nil {
		t.Fatalf("failed to load embedded templates: %v", err)
	}
	router := h.Router()
	ctx := context.Background()

	if _, err := svc.admin.OverridePoints(ctx, map[string]int{"3.A": 7, "4.B": -2}); err != nil {
		t.Fatalf("OverridePoints failed: %v", err)
	}

	rec := doRouter(router, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("index: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	body := html.UnescapeString(rec.Body.String())
	for _, want := range []string{
		`<tr data-class="3.A">`,
		`class="pl trend-positive">+7</td>`,
		`class="pl trend-negative">-2</td>`,
		`<fieldset class="category" data-category="Kategorie 4">`,
		`max="5"`,
		`data-category="Kategorie 3"`,
		"No round settled yet",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index: expected %q", want)
		}
	}

	rec = doRouter(router, http.MethodGet, "/admin/login")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `name="passphrase"`) {
		t.Errorf("login: unexpected response %d", rec.Code)
	}

	token, _ := adminAuth.Login("G26")
	rec = doRouterWithCookie(router, http.MethodGet, "/admin", &http.Cookie{Name: auth.CookieName, Value: token})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected status %d, got %d", http.StatusOK, rec.Code)
	}
	body = rec.Body.String()
	for _, want := range []string{
		`name="3.A" value="7"`,
		`min="-999" max="999"`,
		`id="base-url-form"`,
		`/static/js/admin.js`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("admin: expected %q", want)
		}
	}

	for _, path := range []string{"/static/css/style.css", "/static/js/board.js", "/static/js/admin.js"} {
		if rec := doRouter(router, http.MethodGet, path); rec.Code != http.StatusOK {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusOK, rec.Code)
		}
	}
}

func TestEmbeddedTemplates_AfterRound(t *testing.T) {
	svc := newTestServices(t)
	h, err := handlers.New(
		svc.scoreboard, svc.settlement, svc.admin, svc.settings, svc.repo,
		web.GetTemplatesFS(), nil, auth.New("G26"), nil, nil, handlers.NoopHTTPLogger{},
	)
	if err != nil {
		t.Fatalf("failed to load embedded templates: %v", err)
	}

	req := withBet(abstainAll(svc.reg), betting.Bet{Class: "3.A", Target: "3.B", Amount: 2})
	if _, err := svc.settlement.Settle(context.Background(), req.Bets, req.Winners); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	rec := doRouter(h.Router(), http.MethodGet, "/")
	if !strings.Contains(rec.Body.String(), "Last round: 1 won, 0 lost, 4 without a bet") {
		t.Errorf("expected last round summary, got %s", rec.Body.String())
	}
}
