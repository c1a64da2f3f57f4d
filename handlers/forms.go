// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/danielhkuo/quickly-ask/auth"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// formValue returns the trimmed value of a posted form field.
func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}

// validationMessage turns the first validator failure into a flash message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid form submission."
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// flashRedirect queues msg and answers with a 303 to url.
func flashRedirect(sessions *auth.Sessions, w http.ResponseWriter, r *http.Request, msg, url string) {
	if err := sessions.Flash(w, r, msg); err != nil {
		slog.Error("failed to save session", "error", err)
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
