// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-ask/testutil"
)

func newClient(t *testing.T) *testutil.Client {
	t.Helper()

	db := testutil.SetupTestDB(t)
	h, err := NewRouter(db, testutil.GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}
	return testutil.NewClient(t, h)
}

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	h, err := NewRouter(db, testutil.GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := `{"status":"ok","database":"ok"}`
	if got := strings.TrimSpace(w.Body.String()); got != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestRouteExistence(t *testing.T) {
	c := newClient(t)

	testCases := []struct {
		method string
		path   string
		code   int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/about", http.StatusOK},
		{"GET", "/register", http.StatusOK},
		{"GET", "/login", http.StatusOK},
		{"GET", "/logout", http.StatusSeeOther},
		{"GET", "/ask", http.StatusSeeOther},
		{"POST", "/ask", http.StatusSeeOther},
		{"POST", "/answer/1", http.StatusSeeOther},
		{"POST", "/upvote/1", http.StatusSeeOther},
		{"GET", "/question/1", http.StatusNotFound},
		{"GET", "/question/abc", http.StatusNotFound},
		{"GET", "/no-such-page", http.StatusNotFound},
		{"GET", "/upvote/1", http.StatusMethodNotAllowed},
		{"GET", "/static/script.js", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var resp testutil.Response
			if tc.method == "POST" {
				resp = c.PostForm(tc.path, url.Values{})
			} else {
				resp = c.Get(tc.path)
			}
			if resp.Code != tc.code {
				t.Errorf("Expected status %d, got %d", tc.code, resp.Code)
			}
		})
	}
}

func TestLoginRequired(t *testing.T) {
	testCases := []struct {
		method string
		path   string
		flash  string
	}{
		{"GET", "/ask", "You must be logged in to ask a question."},
		{"POST", "/ask", "You must be logged in to ask a question."},
		{"POST", "/answer/1", "You must be logged in to answer."},
		{"POST", "/upvote/1", "You must be logged in to upvote."},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			c := newClient(t)

			var resp testutil.Response
			if tc.method == "POST" {
				resp = c.PostForm(tc.path, url.Values{"title": {"t"}, "body": {"b"}})
			} else {
				resp = c.Get(tc.path)
			}
			if resp.Code != http.StatusSeeOther || resp.Location != "/login" {
				t.Fatalf("Expected 303 to /login, got %d %s", resp.Code, resp.Location)
			}

			page := c.Follow(resp)
			testutil.Contains(t, page.Body, tc.flash)
		})
	}
}

// TestForumFlow walks a user through the whole site: register, log in, ask
// a tagged question, answer it, upvote the answer, search and log out.
func TestForumFlow(t *testing.T) {
	c := newClient(t)

	resp := c.PostForm("/register", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"pw"},
	})
	if resp.Code != http.StatusSeeOther || resp.Location != "/login" {
		t.Fatalf("Register: expected 303 to /login, got %d %s", resp.Code, resp.Location)
	}
	testutil.Contains(t, c.Follow(resp).Body, "Registration successful! Please login.")

	// Duplicate username is turned away
	resp = c.PostForm("/register", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"pw"},
	})
	if resp.Location != "/register" {
		t.Fatalf("Duplicate register: expected redirect to /register, got %d %s", resp.Code, resp.Location)
	}
	testutil.Contains(t, c.Follow(resp).Body, "Username already exists")

	// Wrong password re-renders the form
	resp = c.PostForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	if resp.Code != http.StatusOK {
		t.Fatalf("Bad login: expected 200, got %d", resp.Code)
	}
	testutil.Contains(t, resp.Body, "Invalid username or password")

	c.Login("alice", "pw")
	home := c.Get("/")
	testutil.Contains(t, home.Body, "Login successful!", "alice", `href="/logout"`)

	resp = c.PostForm("/ask", url.Values{
		"title": {"Why?"},
		"body":  {"Because."},
		"tags":  {"meta, help"},
	})
	if resp.Code != http.StatusSeeOther || resp.Location != "/" {
		t.Fatalf("Ask: expected 303 to /, got %d %s", resp.Code, resp.Location)
	}
	home = c.Follow(resp)
	testutil.Contains(t, home.Body, "Question posted successfully!", "Why?", `href="/question/1"`, "0 answers",
		`href="/?tag=help"`, `href="/?tag=meta"`)

	resp = c.PostForm("/answer/1", url.Values{"body": {"Because why not"}})
	if resp.Code != http.StatusSeeOther || resp.Location != "/question/1" {
		t.Fatalf("Answer: expected 303 to /question/1, got %d %s", resp.Code, resp.Location)
	}
	page := c.Follow(resp)
	testutil.Contains(t, page.Body, "Answer posted!", "Because why not", `<span class="count">0</span>`)

	resp = c.PostForm("/upvote/1", nil)
	if resp.Code != http.StatusSeeOther || resp.Location != "/question/1" {
		t.Fatalf("Upvote: expected 303 to /question/1, got %d %s", resp.Code, resp.Location)
	}
	page = c.Follow(resp)
	testutil.Contains(t, page.Body, "Upvoted!", `<span class="count">1</span>`)

	if got := c.Get("/?tag=meta").Body; !strings.Contains(got, "Why?") {
		t.Error("Expected tag filter to find the question")
	}
	if got := c.Get("/?q=BECAUSE").Body; !strings.Contains(got, "Why?") {
		t.Error("Expected case-insensitive search to match the body")
	}
	if got := c.Get("/?q=because&tag=nope").Body; strings.Contains(got, "Why?") {
		t.Error("Expected query and tag to intersect")
	}

	resp = c.Get("/logout")
	if resp.Code != http.StatusSeeOther || resp.Location != "/" {
		t.Fatalf("Logout: expected 303 to /, got %d %s", resp.Code, resp.Location)
	}
	home = c.Follow(resp)
	testutil.Contains(t, home.Body, "You have been logged out.", `href="/login"`)

	// Logged out again, so voting bounces to the login page
	resp = c.PostForm("/upvote/1", nil)
	if resp.Location != "/login" {
		t.Errorf("Expected upvote after logout to redirect to /login, got %d %s", resp.Code, resp.Location)
	}
}

func TestUpvoteUnknownAnswer(t *testing.T) {
	c := newClient(t)

	c.PostForm("/register", url.Values{"username": {"bob"}, "email": {"bob@example.com"}, "password": {"pw"}})
	c.Login("bob", "pw")

	resp := c.PostForm("/upvote/99", nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
	testutil.Contains(t, resp.Body, "Page not found")
}

func TestConcurrentUpvotes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, err := NewRouter(db, testutil.GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}

	alice := testutil.CreateTestUser(t, db, "alice")
	qid := testutil.CreateTestQuestion(t, db, alice, "Q", "body", time.Now())
	aid := testutil.CreateTestAnswer(t, db, alice, qid, "a")

	form := url.Values{"username": {"alice"}, "password": {testutil.TestPassword}}
	loginReq := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	loginReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	login := httptest.NewRecorder()
	h.ServeHTTP(login, loginReq)
	cookies := login.Result().Cookies()

	const voters = 10
	var wg sync.WaitGroup
	codes := make(chan int, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/upvote/1", nil)
			for _, c := range cookies {
				req.AddCookie(c)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		if code != http.StatusSeeOther {
			t.Errorf("Expected status 303, got %d", code)
		}
	}
	if got := testutil.Upvotes(t, db, aid); got != voters {
		t.Errorf("Expected %d upvotes, got %d", voters, got)
	}
}
