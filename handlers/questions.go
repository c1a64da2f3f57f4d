// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/views"
)

type QuestionHandler struct {
	store    *store.Store
	sessions *auth.Sessions
	views    *views.Renderer
}

func NewQuestionHandler(st *store.Store, sessions *auth.Sessions, v *views.Renderer) *QuestionHandler {
	return &QuestionHandler{store: st, sessions: sessions, views: v}
}

// Home handles GET / with optional q (title or body substring) and tag
// (exact name) filters.
func (h *QuestionHandler) Home(w http.ResponseWriter, r *http.Request) {
	filter := models.QuestionFilter{
		Query: r.URL.Query().Get("q"),
		Tag:   r.URL.Query().Get("tag"),
	}

	questions, err := h.store.ListQuestions(r.Context(), filter)
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}
	tags, err := h.store.AllTags(r.Context())
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, views.PageIndex, views.HomeData{
		Questions: questions,
		Tags:      tags,
		Query:     filter.Query,
		Tag:       filter.Tag,
	})
}

// AskForm handles GET /ask
func (h *QuestionHandler) AskForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, views.PageAsk, nil)
}

// Ask handles POST /ask
func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	form := models.AskForm{
		Title: formValue(r, "title"),
		Body:  formValue(r, "body"),
		Tags:  r.PostFormValue("tags"),
	}
	if err := validate.Struct(form); err != nil {
		flashRedirect(h.sessions, w, r, validationMessage(err), "/ask")
		return
	}

	names := store.ParseTagNames(form.Tags)
	for _, name := range names {
		if utf8.RuneCountInString(name) > models.MaxTagNameLen {
			msg := fmt.Sprintf("Tag names must be at most %d characters.", models.MaxTagNameLen)
			flashRedirect(h.sessions, w, r, msg, "/ask")
			return
		}
	}

	id, err := h.store.CreateQuestion(r.Context(), models.NewQuestion{
		Title:    form.Title,
		Body:     form.Body,
		UserID:   user.ID,
		TagNames: names,
	})
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	slog.Info("question posted", "question_id", id, "user_id", user.ID, "tags", len(names))

	flashRedirect(h.sessions, w, r, "Question posted successfully!", "/")
}

// View handles GET /question/{id}
func (h *QuestionHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	question, err := h.store.QuestionDetail(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.views.NotFound(w, r)
		return
	}
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	h.views.Render(w, r, http.StatusOK, views.PageQuestion, question)
}
