// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/views"
)

const msgInvalidLogin = "Invalid username or password"

type AuthHandler struct {
	store    *store.Store
	sessions *auth.Sessions
	views    *views.Renderer
	hasher   auth.PasswordHasher
}

func NewAuthHandler(st *store.Store, sessions *auth.Sessions, v *views.Renderer, hasher auth.PasswordHasher) *AuthHandler {
	return &AuthHandler{store: st, sessions: sessions, views: v, hasher: hasher}
}

// RegisterForm handles GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, views.PageRegister, nil)
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := models.RegisterForm{
		Username: formValue(r, "username"),
		Email:    formValue(r, "email"),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		flashRedirect(h.sessions, w, r, validationMessage(err), "/register")
		return
	}

	hash, err := h.hasher.Hash(form.Password)
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	id, err := h.store.CreateUser(r.Context(), models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: hash,
	})
	if errors.Is(err, store.ErrUsernameTaken) {
		flashRedirect(h.sessions, w, r, "Username already exists", "/register")
		return
	}
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", id, "username", form.Username)

	flashRedirect(h.sessions, w, r, "Registration successful! Please login.", "/login")
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, views.PageLogin, nil)
}

// Login handles POST /login. Unknown users and wrong passwords get the same
// message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := models.LoginForm{
		Username: formValue(r, "username"),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		h.rejectLogin(w, r, form.Username)
		return
	}

	user, err := h.store.UserByUsername(r.Context(), form.Username)
	if errors.Is(err, store.ErrNotFound) {
		h.rejectLogin(w, r, form.Username)
		return
	}
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}
	if !auth.CheckPassword(user.Password, form.Password) {
		h.rejectLogin(w, r, form.Username)
		return
	}

	current := auth.CurrentUser{ID: user.ID, Username: user.Username}
	if err := h.sessions.Login(w, r, current, "Login successful!"); err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) rejectLogin(w http.ResponseWriter, r *http.Request, username string) {
	if err := h.sessions.Flash(w, r, msgInvalidLogin); err != nil {
		slog.Error("failed to save session", "error", err)
	}
	h.views.Render(w, r, http.StatusOK, views.PageLogin, views.LoginData{Username: username})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r, "You have been logged out."); err != nil {
		h.views.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
