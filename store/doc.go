// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the data-access layer. Queries are written once with ?
placeholders and rebound by sqlx for the active driver, so the same code
runs on PostgreSQL and SQLite.

# Errors

  - ErrNotFound: lookup by id or username found nothing
  - ErrUsernameTaken: registration with an existing username

Other failures, including constraint violations, are wrapped and returned
as is.

# Tags

Tag input is normalised before it reaches the store:

	names := store.ParseTagNames("go, sql, go") // ["go", "sql"]

CreateQuestion resolves or creates every tag and attaches it inside the
same transaction as the question insert.

# Upvotes

Upvote is a single UPDATE ... SET upvotes = upvotes + 1, so concurrent
requests never lose an increment. Nothing records who voted.
*/
package store
