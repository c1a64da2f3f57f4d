// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema and runs transactions.

# Connections

Open picks the driver from the configuration and pings the database:

	conn, err := db.Open(ctx, cfg)

PostgreSQL goes through lib/pq, SQLite through modernc.org/sqlite (pure Go,
no cgo). SQLite DSNs get foreign key enforcement switched on and the pool
is limited to one connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
There is no migration versioning.

# Tables

  - user: accounts (quoted, "user" is reserved in PostgreSQL)
  - question: title, body, author
  - answer: body, author, question, upvote counter
  - tag: unique tag names
  - question_tags: question/tag association

# Relationships

	user 1──* question
	user 1──* answer
	question 1──* answer
	question *──* tag (via question_tags)

Foreign keys have no ON DELETE action, so a question that still has
answers or tags cannot be deleted.

# Transactions

WithTx commits when fn returns nil and rolls back otherwise:

	err := db.WithTx(ctx, conn, func(tx *sqlx.Tx) error { ... })
*/
package db
