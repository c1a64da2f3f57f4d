// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/handlers"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/store"
	"github.com/danielhkuo/quickly-ask/views"
)

// NewRouter wires every route. Each call builds its own metrics registry.
func NewRouter(db *sqlx.DB, cfg cliparse.Config) (http.Handler, error) {
	st := store.New(db)
	sessions := auth.NewSessions(cfg.SecretKey)
	renderer, err := views.New(sessions)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewDBStatsCollector(db.DB, "quickly_ask"),
	)
	metrics := middleware.NewMetrics(reg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st, sessions, renderer, auth.NewPasswordHasher(cfg.HashIterations))
	questionHandler := handlers.NewQuestionHandler(st, sessions, renderer)
	answerHandler := handlers.NewAnswerHandler(st, sessions, renderer)
	pageHandler := handlers.NewPageHandler(st, renderer)

	login := func(msg string, h http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireLogin(sessions, msg, h)
	}

	r := mux.NewRouter()
	r.Use(middleware.WithLogging, metrics.Middleware, middleware.WithSession(sessions))

	// Operational
	r.HandleFunc("/health", pageHandler.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(views.Static()).Methods(http.MethodGet)

	// Browsing (public)
	r.HandleFunc("/", questionHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/question/{id:[0-9]+}", questionHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/about", pageHandler.About).Methods(http.MethodGet)

	// Accounts
	r.HandleFunc("/register", authHandler.RegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", authHandler.LoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Contributions (login required)
	r.HandleFunc("/ask", login("You must be logged in to ask a question.", questionHandler.AskForm)).Methods(http.MethodGet)
	r.HandleFunc("/ask", login("You must be logged in to ask a question.", questionHandler.Ask)).Methods(http.MethodPost)
	r.HandleFunc("/answer/{id:[0-9]+}", login("You must be logged in to answer.", answerHandler.PostAnswer)).Methods(http.MethodPost)
	r.HandleFunc("/upvote/{id:[0-9]+}", login("You must be logged in to upvote.", answerHandler.Upvote)).Methods(http.MethodPost)

	// Unmatched routes skip r.Use, so they get the chain explicitly
	r.NotFoundHandler = middleware.WithLogging(middleware.WithSession(sessions)(http.HandlerFunc(pageHandler.NotFound)))

	return r, nil
}
