// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/quickly-ask/auth"
)

func TestWithLogging(t *testing.T) {
	// Create a simple handler that returns OK
	handlerCalled := false
	var seenID string
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		seenID = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	// Wrap with logging middleware
	wrappedHandler := WithLogging(testHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()

	wrappedHandler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "success" {
		t.Errorf("Expected body 'success', got '%s'", w.Body.String())
	}
	if seenID == "" {
		t.Error("Expected a request id in the handler context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seenID {
		t.Errorf("Expected %s header %q, got %q", RequestIDHeader, seenID, got)
	}
}

func TestWithLogging_PreservesResponse(t *testing.T) {
	// Test that logging doesn't interfere with various response codes
	testCases := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"OK", http.StatusOK, "ok"},
		{"SeeOther", http.StatusSeeOther, ""},
		{"NotFound", http.StatusNotFound, "not found"},
		{"InternalError", http.StatusInternalServerError, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
				w.Write([]byte(tc.body))
			}))

			req := httptest.NewRequest("POST", "/answer/1", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tc.statusCode {
				t.Errorf("Expected status %d, got %d", tc.statusCode, w.Code)
			}
			if w.Body.String() != tc.body {
				t.Errorf("Expected body '%s', got '%s'", tc.body, w.Body.String())
			}
		})
	}
}

func TestWithSession(t *testing.T) {
	sessions := auth.NewSessions("test-secret-key")

	// Obtain a signed cookie for alice
	login := httptest.NewRecorder()
	if err := sessions.Login(login, httptest.NewRequest("POST", "/login", nil), auth.CurrentUser{ID: 42, Username: "alice"}, ""); err != nil {
		t.Fatalf("Failed to log in: %v", err)
	}
	cookies := login.Result().Cookies()

	var got auth.CurrentUser
	var ok bool
	handler := WithSession(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = auth.UserFromContext(r.Context())
	}))

	t.Run("with cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)

		if !ok || got.ID != 42 || got.Username != "alice" {
			t.Errorf("Expected alice in context, got %+v (ok=%v)", got, ok)
		}
	})

	t.Run("without cookie", func(t *testing.T) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		if ok {
			t.Errorf("Expected no user, got %+v", got)
		}
	})
}

func TestRequireLogin(t *testing.T) {
	sessions := auth.NewSessions("test-secret-key")
	called := false
	handler := RequireLogin(sessions, "You must be logged in to upvote.", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("anonymous is redirected", func(t *testing.T) {
		called = false
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("POST", "/upvote/1", nil))

		if called {
			t.Error("Handler should not run for anonymous users")
		}
		if w.Code != http.StatusSeeOther {
			t.Errorf("Expected status 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/login" {
			t.Errorf("Expected redirect to /login, got %s", loc)
		}

		// The flash travels in the session cookie
		next := httptest.NewRequest("GET", "/login", nil)
		for _, c := range w.Result().Cookies() {
			next.AddCookie(c)
		}
		flashes := sessions.PopFlashes(httptest.NewRecorder(), next)
		if len(flashes) != 1 || flashes[0] != "You must be logged in to upvote." {
			t.Errorf("Expected login flash, got %v", flashes)
		}
	})

	t.Run("logged in passes through", func(t *testing.T) {
		called = false
		req := httptest.NewRequest("POST", "/upvote/1", nil)
		req = req.WithContext(auth.WithUser(req.Context(), auth.CurrentUser{ID: 1, Username: "alice"}))
		w := httptest.NewRecorder()
		handler(w, req)

		if !called {
			t.Error("Expected handler to be called")
		}
		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"status":"degraded"}` {
		t.Errorf("Unexpected body %s", got)
	}
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		expected   string
	}{
		{"X-Forwarded-For single", "203.0.113.1", "", "10.0.0.1:1234", "203.0.113.1"},
		{"X-Forwarded-For chain", "203.0.113.1, 10.0.0.2", "", "10.0.0.1:1234", "203.0.113.1"},
		{"X-Real-IP", "", "198.51.100.7", "10.0.0.1:1234", "198.51.100.7"},
		{"RemoteAddr with port", "", "", "192.0.2.5:5555", "192.0.2.5"},
		{"RemoteAddr without port", "", "", "192.0.2.5", "192.0.2.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xri != "" {
				req.Header.Set("X-Real-IP", tc.xri)
			}

			if got := GetClientIP(req); got != tc.expected {
				t.Errorf("Expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/question/{id:[0-9]+}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/question/1", "/question/2", "/question/3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	got := testutil.ToFloat64(m.requests.WithLabelValues("/question/{id:[0-9]+}", "GET", "200"))
	if got != 3 {
		t.Errorf("Expected 3 requests under the route template, got %v", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("Expected one latency series, got %d", n)
	}
}
