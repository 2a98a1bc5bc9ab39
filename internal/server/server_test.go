package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kharelpawan/uaebackend/internal/auth"
	"github.com/kharelpawan/uaebackend/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	st, err := store.Open("sqlite", "") // in-memory
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authSvc, err := auth.NewService(st, auth.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}

	cfg := DefaultConfig()
	cfg.UploadsDir = "" // no static assets in tests
	cfg.MaxRequests = 10000
	cfg.AuthMaxRequests = 10000

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, st, authSvc, logger)
}

func do(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, "GET", "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if body["timestamp"] == "" {
		t.Error("expected a timestamp")
	}

	rr = do(t, srv, "GET", "/health/ready", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("ready: got status %d, want 200", rr.Code)
	}
}

func TestSecureHeadersOnEveryRoute(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/api/services/", "/no/such/route"} {
		rr := do(t, srv, "GET", path, "", nil)
		if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
			t.Errorf("%s: X-Content-Type-Options = %q, want nosniff", path, got)
		}
		if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
			t.Errorf("%s: X-Frame-Options = %q, want DENY", path, got)
		}
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, "GET", "/no/such/route", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("got Content-Type %q, want application/json", ct)
	}
	if !strings.Contains(rr.Body.String(), `"error"`) {
		t.Errorf("expected error envelope, got %s", rr.Body.String())
	}
}

func TestRequestIDOnEveryResponse(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, "GET", "/health", "", nil)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header on response")
	}
}

// Full first-run flow: setup, then login with the bootstrap credentials,
// then hit the gated introspection endpoint with the issued token.
func TestSetupLoginMeFlow(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, "POST", "/api/auth/setup", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("setup: got status %d, want 200: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"email":    auth.DefaultBootstrapEmail,
		"password": auth.DefaultBootstrapPassword,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("login: got status %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var loginBody struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if loginBody.Token == "" {
		t.Fatal("expected a token")
	}

	rr = do(t, srv, "GET", "/api/auth/me", loginBody.Token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("me: got status %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), auth.DefaultBootstrapEmail) {
		t.Errorf("me response missing email: %s", rr.Body.String())
	}

	// Second setup attempt is refused.
	rr = do(t, srv, "POST", "/api/auth/setup", "", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("second setup: got status %d, want 403", rr.Code)
	}
}

func TestGatedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	gated := []struct {
		method, path string
	}{
		{"GET", "/api/auth/me"},
		{"POST", "/api/services"},
		{"PUT", "/api/services/1"},
		{"DELETE", "/api/services/1"},
		{"PUT", "/api/pages/about"},
		{"POST", "/api/highlights"},
		{"PUT", "/api/highlights/1"},
		{"DELETE", "/api/highlights/1"},
		{"GET", "/api/messages"},
		{"GET", "/api/messages/1"},
		{"PATCH", "/api/messages/1/read"},
		{"DELETE", "/api/messages/1"},
	}
	for _, route := range gated {
		rr := do(t, srv, route.method, route.path, "", map[string]string{})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: got status %d, want 401", route.method, route.path, rr.Code)
		}
	}
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	srv := newTestServer(t)

	public := []struct {
		method, path string
		want         int
	}{
		{"GET", "/api/services", http.StatusOK},
		{"GET", "/api/services/all", http.StatusOK},
		{"GET", "/api/pages", http.StatusOK},
		{"GET", "/api/pages/about", http.StatusOK},
		{"GET", "/api/highlights", http.StatusOK},
		{"GET", "/api/highlights/all", http.StatusOK},
	}
	for _, route := range public {
		rr := do(t, srv, route.method, route.path, "", nil)
		if rr.Code != route.want {
			t.Errorf("%s %s: got status %d, want %d", route.method, route.path, rr.Code, route.want)
		}
	}
}

func TestContactFormAndAdminInbox(t *testing.T) {
	srv := newTestServer(t)

	// Anonymous visitor submits the contact form.
	rr := do(t, srv, "POST", "/api/messages", "", map[string]string{
		"name":    "Fatima",
		"phone":   "+971501234567",
		"message": "My AC stopped working",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("contact form: got status %d, want 201: %s", rr.Code, rr.Body.String())
	}

	// The admin reads the inbox.
	do(t, srv, "POST", "/api/auth/setup", "", nil)
	rr = do(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"email":    auth.DefaultBootstrapEmail,
		"password": auth.DefaultBootstrapPassword,
	})
	var loginBody struct {
		Token string `json:"token"`
	}
	json.Unmarshal(rr.Body.Bytes(), &loginBody)

	rr = do(t, srv, "GET", "/api/messages", loginBody.Token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("inbox: got status %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Fatima") {
		t.Errorf("inbox missing submitted message: %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"unread_count":1`) {
		t.Errorf("expected unread_count 1: %s", rr.Body.String())
	}
}

func TestServiceLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	do(t, srv, "POST", "/api/auth/setup", "", nil)
	rr := do(t, srv, "POST", "/api/auth/login", "", map[string]string{
		"email":    auth.DefaultBootstrapEmail,
		"password": auth.DefaultBootstrapPassword,
	})
	var loginBody struct {
		Token string `json:"token"`
	}
	json.Unmarshal(rr.Body.Bytes(), &loginBody)
	token := loginBody.Token

	rr = do(t, srv, "POST", "/api/services", token, map[string]interface{}{
		"title_en": "AC Repair",
		"title_ar": "تصليح مكيفات",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got status %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID int64 `json:"id"`
	}
	json.Unmarshal(rr.Body.Bytes(), &created)
	if created.ID == 0 {
		t.Fatal("expected non-zero service id")
	}

	// Public site sees it immediately.
	rr = do(t, srv, "GET", "/api/services", "", nil)
	if !strings.Contains(rr.Body.String(), "AC Repair") {
		t.Errorf("public list missing new service: %s", rr.Body.String())
	}

	rr = do(t, srv, "DELETE", "/api/services/1", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: got status %d, want 200: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, "GET", "/api/services/1", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("get after delete: got status %d, want 404", rr.Code)
	}
}

func TestAuthRateLimit(t *testing.T) {
	st, err := store.Open("sqlite", "")
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	authSvc, err := auth.NewService(st, auth.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}

	cfg := DefaultConfig()
	cfg.UploadsDir = ""
	cfg.MaxRequests = 10000
	cfg.AuthMaxRequests = 3

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, st, authSvc, logger)

	var last int
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.9:1234"
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Fatalf("got status %d on 4th auth request, want 429", last)
	}
}
