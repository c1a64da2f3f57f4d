// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/db"
)

// TestPassword is the password of every user made by CreateTestUser.
const TestPassword = "test-password"

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := GetTestConfig()
	cfg.DatabaseURL = "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration. The low iteration
// count keeps hashing fast.
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           5000,
		DatabaseURL:    "file:test?mode=memory&cache=shared",
		DatabaseType:   cliparse.DatabaseSQLite,
		SecretKey:      "test-secret-key",
		HashIterations: 1000,
		LogLevel:       "error",
	}
}

// CreateTestUser inserts a user whose password is TestPassword and returns
// its id.
func CreateTestUser(t *testing.T, conn *sqlx.DB, username string) int64 {
	t.Helper()

	hash, err := auth.NewPasswordHasher(GetTestConfig().HashIterations).Hash(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	var id int64
	err = conn.Get(&id, `
		INSERT INTO "user" (username, email, password)
		VALUES (?, ?, ?)
		RETURNING id
	`, username, username+"@example.com", hash)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return id
}

// CreateTestQuestion inserts a question, creating any tags it names, and
// returns its id. createdAt orders questions deterministically.
func CreateTestQuestion(t *testing.T, conn *sqlx.DB, userID int64, title, body string, createdAt time.Time, tags ...string) int64 {
	t.Helper()

	var id int64
	err := conn.Get(&id, `
		INSERT INTO question (title, body, created_at, user_id)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`, title, body, createdAt.UTC(), userID)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	for _, name := range tags {
		if _, err := conn.Exec(`INSERT INTO tag (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			t.Fatalf("Failed to create test tag: %v", err)
		}
		_, err := conn.Exec(`
			INSERT INTO question_tags (question_id, tag_id)
			SELECT ?, id FROM tag WHERE name = ?
		`, id, name)
		if err != nil {
			t.Fatalf("Failed to attach test tag: %v", err)
		}
	}

	return id
}

// CreateTestAnswer inserts an answer with zero upvotes and returns its id.
func CreateTestAnswer(t *testing.T, conn *sqlx.DB, userID, questionID int64, body string) int64 {
	t.Helper()

	var id int64
	err := conn.Get(&id, `
		INSERT INTO answer (body, created_at, user_id, question_id, upvotes)
		VALUES (?, ?, ?, ?, 0)
		RETURNING id
	`, body, time.Now().UTC(), userID, questionID)
	if err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}

	return id
}

// Upvotes reads an answer's counter.
func Upvotes(t *testing.T, conn *sqlx.DB, answerID int64) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, `SELECT upvotes FROM answer WHERE id = ?`, answerID); err != nil {
		t.Fatalf("Failed to read upvotes: %v", err)
	}
	return n
}

// Count returns SELECT COUNT(*) FROM table.
func Count(t *testing.T, conn *sqlx.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 to location.
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected status 303, got %d. Body: %s", w.Code, w.Body.String())
		return
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %s, got %s", location, got)
	}
}

// Response is a fully read HTTP response.
type Response struct {
	Code     int
	Body     string
	Location string
}

// Client talks to a live test server and keeps cookies between requests.
// Redirects are returned, not followed.
type Client struct {
	t   *testing.T
	srv *httptest.Server
	hc  *http.Client
}

// NewClient starts a test server for h. It is shut down when the test ends.
func NewClient(t *testing.T, h http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	return &Client{
		t:   t,
		srv: srv,
		hc: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *Client) Get(path string) Response {
	c.t.Helper()
	return c.do(c.hc.Get(c.srv.URL + path))
}

func (c *Client) PostForm(path string, form url.Values) Response {
	c.t.Helper()
	return c.do(c.hc.PostForm(c.srv.URL+path, form))
}

// Follow issues a GET for the Location of a redirect.
func (c *Client) Follow(resp Response) Response {
	c.t.Helper()
	if resp.Location == "" {
		c.t.Fatalf("Expected a redirect, got %d", resp.Code)
	}
	return c.Get(resp.Location)
}

// Login posts the login form and fails the test unless it redirects home.
func (c *Client) Login(username, password string) {
	c.t.Helper()
	resp := c.PostForm("/login", url.Values{"username": {username}, "password": {password}})
	if resp.Code != http.StatusSeeOther || resp.Location != "/" {
		c.t.Fatalf("Login as %s failed: %d %s", username, resp.Code, resp.Body)
	}
}

func (c *Client) do(resp *http.Response, err error) Response {
	c.t.Helper()
	if err != nil {
		c.t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("Failed to read body: %v", err)
	}

	location := resp.Header.Get("Location")
	if u, err := url.Parse(location); err == nil && u.IsAbs() {
		location = u.RequestURI()
	}

	return Response{Code: resp.StatusCode, Body: string(body), Location: location}
}

// Contains fails the test unless body contains every want.
func Contains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("Expected body to contain %q", w)
		}
	}
}
