// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "session"

	keyUserID   = "user_id"
	keyUsername = "username"
)

// CurrentUser is the identity carried by a logged-in session.
type CurrentUser struct {
	ID       int64
	Username string
}

// Sessions wraps a signed cookie store holding the current user and flash
// messages.
type Sessions struct {
	store sessions.Store
}

// NewSessions creates a cookie store signed with secretKey.
func NewSessions(secretKey string) *Sessions {
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// get never fails: a cookie that does not verify yields a fresh session.
func (s *Sessions) get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, SessionName)
	if err != nil {
		slog.Debug("discarding unreadable session cookie", "error", err)
	}
	return sess
}

// Current returns the logged-in user, if any.
func (s *Sessions) Current(r *http.Request) (CurrentUser, bool) {
	sess := s.get(r)

	id, ok := sess.Values[keyUserID].(int64)
	if !ok {
		return CurrentUser{}, false
	}
	username, _ := sess.Values[keyUsername].(string)
	return CurrentUser{ID: id, Username: username}, true
}

// Login stores the user in the session and queues a flash message.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, user CurrentUser, flash string) error {
	sess := s.get(r)
	sess.Values[keyUserID] = user.ID
	sess.Values[keyUsername] = user.Username
	if flash != "" {
		sess.AddFlash(flash)
	}
	return sess.Save(r, w)
}

// Logout drops every session value, then queues flash on the now empty
// session.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request, flash string) error {
	sess := s.get(r)
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	if flash != "" {
		sess.AddFlash(flash)
	}
	return sess.Save(r, w)
}

// Flash queues a one-shot message for the next rendered page.
func (s *Sessions) Flash(w http.ResponseWriter, r *http.Request, msg string) error {
	sess := s.get(r)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// PopFlashes returns and clears the queued messages. It writes a cookie, so
// it must run before the response body.
func (s *Sessions) PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	sess := s.get(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		slog.Error("failed to save session", "error", err)
	}

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

type userCtxKey struct{}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext returns the user placed by WithUser.
func UserFromContext(ctx context.Context) (CurrentUser, bool) {
	user, ok := ctx.Value(userCtxKey{}).(CurrentUser)
	return user, ok
}
