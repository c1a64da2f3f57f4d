// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names, one per file under templates/ besides base.html.
const (
	PageIndex    = "index.html"
	PageRegister = "register.html"
	PageLogin    = "login.html"
	PageAsk      = "ask.html"
	PageQuestion = "question.html"
	PageAbout    = "about.html"
	PageNotFound = "404.html"
)

var pages = []string{PageIndex, PageRegister, PageLogin, PageAsk, PageQuestion, PageAbout, PageNotFound}

// HomeData feeds the question list.
type HomeData struct {
	Questions []models.QuestionSummary
	Tags      []models.Tag
	Query     string
	Tag       string
}

// LoginData echoes the submitted username back into the form.
type LoginData struct {
	Username string
}

// PageData is what every template receives.
type PageData struct {
	User    *auth.CurrentUser
	Flashes []string
	Data    any
}

// Renderer executes the page templates. Templates are parsed once; the
// Renderer is safe for concurrent use.
type Renderer struct {
	sessions  *auth.Sessions
	templates map[string]*template.Template
}

// New parses every page template against base.html.
func New(sessions *auth.Sessions) (*Renderer, error) {
	funcs := template.FuncMap{
		"ago": func(t time.Time) string { return humanize.Time(t) },
		"plural": func(n int, singular string) string {
			return english.Plural(n, singular, "")
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &Renderer{sessions: sessions, templates: templates}, nil
}

// Render writes page with status. Pending flash messages are consumed and
// the current user is taken from the request context.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	tmpl, ok := v.templates[page]
	if !ok {
		v.ServerError(w, r, fmt.Errorf("unknown template %s", page))
		return
	}

	pd := PageData{Data: data}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		pd.User = &user
	}
	pd.Flashes = v.sessions.PopFlashes(w, r)

	// Buffer so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", pd); err != nil {
		v.ServerError(w, r, fmt.Errorf("execute template %s: %w", page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// NotFound renders the 404 page.
func (v *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, PageNotFound, nil)
}

// ServerError logs err and answers with a plain 500.
func (v *Renderer) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// staticFS always has a static/ directory
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
