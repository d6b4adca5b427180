package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

func fakeBankAPI(t *testing.T) *httptest.Server {
	t.Helper()
	uid := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/users/authenticate":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"token": "bank-token"}, "message": "ok"})
		case "/api/v1/me":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"user_id": uid, "first_name": "Ada", "last_name": "Obi"}})
		case "/api/v1/accounts":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		case "/api/v1/accounts/stats":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"total": 0}})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": "not found"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(apiURL string) Config {
	cfg := DefaultConfig()
	cfg.Session.Secret = testSecret
	cfg.BankAPI.URL = apiURL + "/api/v1/"
	cfg.Log.Mode = "development"
	cfg.Log.Level = "error"
	return cfg
}

func TestAppServesLoginAndDashboard(t *testing.T) {
	api := fakeBankAPI(t)
	a, err := New(context.Background(), testConfig(api.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	engine := a.Server.Engine

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}

	form := url.Values{"email": {"ada@bank.test"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: want=303 got=%d body=%s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("login set no cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No accounts found") {
		t.Fatalf("dashboard: status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "bankadmin_logins_total") {
		t.Fatalf("metrics missing login counter: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("static css: want=200 got=%d", rec.Code)
	}
}

func TestAppUsesRedisSessions(t *testing.T) {
	api := fakeBankAPI(t)
	mr := miniredis.RunT(t)
	cfg := testConfig(api.URL)
	cfg.Session.Store = SessionStoreRedis
	cfg.Redis.Addr = mr.Addr()

	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	form := url.Values{"email": {"ada@bank.test"}, "password": {"pw"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: want=303 got=%d", rec.Code)
	}
	if keys := mr.Keys(); len(keys) != 1 || !strings.HasPrefix(keys[0], "bankadmin:session:") {
		t.Fatalf("redis keys: got=%v", keys)
	}

	mr.Close()
	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("healthcheck with redis down: want=503 got=%d", rec.Code)
	}
}

func TestNewFailsFastWhenRedisUnreachable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Session.Store = SessionStoreRedis
	cfg.Redis.Addr = "127.0.0.1:1"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("want error when redis is unreachable")
	}
}
