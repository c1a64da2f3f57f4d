// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap the router with request logging:

	r.Use(middleware.WithLogging)

Every request gets a uuid, returned in the X-Request-ID header and
attached to the start (method, path, remote) and completion (status,
duration_ms) log lines.

# Sessions

WithSession reads the signed session cookie and places the user in the
request context, where handlers and templates find it with
auth.UserFromContext. RequireLogin guards a single handler:

	middleware.RequireLogin(sessions, "You must be logged in to answer.", h.PostAnswer)

Anonymous requests get the message as a flash and a 303 to /login.

# Metrics

NewMetrics registers a request counter and a latency histogram on the
given registry. Labels use the mux route template, not the raw path.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
