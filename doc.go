// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Ask server.

Quickly Ask is a minimal question and answer forum: users register, ask
tagged questions, answer them and upvote answers. Pages are rendered on the
server; there is no JSON API besides the health check.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=app.db SECRET_KEY=change-me go run .

Or with flags:

	go run . serve -p 8080 -d "postgres://..." --secret-key change-me

Create the schema without serving:

	go run . init-db -d app.db

A .env file in the working directory is read first; real environment
variables take precedence over it.

# Configuration

Required settings:

  - DATABASE_URL (-d): postgres:// URL or SQLite file path
  - SECRET_KEY (--secret-key): Session cookie signing key

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): postgres or sqlite (default: inferred from the URL)
  - PASSWORD_HASH_ITERATIONS (--hash-iterations): PBKDF2 rounds (default: 600000)
  - LOG_LEVEL (--log-level): debug, info, warn or error (default: info)

# Architecture

  - handlers: HTTP request handlers (accounts, questions, answers, pages)
  - router: gorilla/mux route table and middleware chain
  - middleware: Logging, sessions, login gate, Prometheus metrics
  - views: Embedded templates and static assets
  - store: SQL queries over sqlx
  - auth: Password hashing and cookie sessions
  - models: Rows, page aggregates and form types
  - db: Driver selection, schema creation, transactions
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
