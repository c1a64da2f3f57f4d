// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/views"
)

type AnswerHandler struct {
	store    *store.Store
	sessions *auth.Sessions
	views    *views.Renderer
}

func NewAnswerHandler(st *store.Store, sessions *auth.Sessions, v *views.Renderer) *AnswerHandler {
	return &AnswerHandler{store: st, sessions: sessions, views: v}
}

func questionURL(id int64) string {
	return fmt.Sprintf("/question/%d", id)
}

// PostAnswer handles POST /answer/{id}. The question is not looked up
// first; an unknown id fails on the foreign key.
func (h *AnswerHandler) PostAnswer(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathID(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}
	user, _ := auth.UserFromContext(r.Context())

	form := models.AnswerForm{Body: formValue(r, "body")}
	if err := validate.Struct(form); err != nil {
		flashRedirect(h.sessions, w, r, validationMessage(err), questionURL(questionID))
		return
	}

	id, err := h.store.CreateAnswer(r.Context(), models.NewAnswer{
		Body:       form.Body,
		UserID:     user.ID,
		QuestionID: questionID,
	})
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	slog.Info("answer posted", "answer_id", id, "question_id", questionID, "user_id", user.ID)

	flashRedirect(h.sessions, w, r, "Answer posted!", questionURL(questionID))
}

// Upvote handles POST /upvote/{id}
func (h *AnswerHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	answerID, ok := pathID(r)
	if !ok {
		h.views.NotFound(w, r)
		return
	}

	questionID, err := h.store.Upvote(r.Context(), answerID)
	if errors.Is(err, store.ErrNotFound) {
		h.views.NotFound(w, r)
		return
	}
	if err != nil {
		h.views.ServerError(w, r, err)
		return
	}

	flashRedirect(h.sessions, w, r, "Upvoted!", questionURL(questionID))
}
