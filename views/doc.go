// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package views renders the HTML pages and serves the static assets. Both
// are embedded in the binary.
//
// Every page is base.html plus one content template. Render pops the
// session's flash messages and reads the current user from the request
// context, so handlers pass only page-specific data.
package views
