// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for Quickly Ask.

# Route Registration

NewRouter builds a gorilla/mux router with every endpoint:

	h, err := router.NewRouter(db, cfg)

# Endpoints

Browsing (public):

	GET  /                - Question list, ?q= search and ?tag= filter
	GET  /question/{id}   - Question with its answers
	GET  /about           - About page

Accounts:

	GET/POST /register    - Sign up
	GET/POST /login       - Log in
	GET      /logout      - Log out

Contributions (login required, otherwise flash and 303 to /login):

	GET/POST /ask         - Ask a question
	POST     /answer/{id} - Answer question {id}
	POST     /upvote/{id} - Upvote answer {id}

Operational:

	GET /health           - JSON database check
	GET /metrics          - Prometheus metrics
	GET /static/...       - Embedded assets

# Middleware

Every matched route runs through request logging, metrics and session
loading, in that order. Unknown paths get the rendered 404 page
with logging and session loading applied.
*/
package router
