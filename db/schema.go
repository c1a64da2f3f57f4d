// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sqlx.DB) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// "user" is quoted everywhere because it is reserved in PostgreSQL.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id SERIAL PRIMARY KEY,
		username VARCHAR(80) NOT NULL UNIQUE,
		email VARCHAR(120) NOT NULL UNIQUE,
		password VARCHAR(200) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS question (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		user_id INTEGER NOT NULL REFERENCES "user"(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_created_at ON question(created_at)`,
	`CREATE TABLE IF NOT EXISTS answer (
		id SERIAL PRIMARY KEY,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		user_id INTEGER NOT NULL REFERENCES "user"(id),
		question_id INTEGER NOT NULL REFERENCES question(id),
		upvotes INTEGER NOT NULL DEFAULT 0 CHECK (upvotes >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer(question_id)`,
	`CREATE TABLE IF NOT EXISTS tag (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS question_tags (
		question_id INTEGER NOT NULL REFERENCES question(id),
		tag_id INTEGER NOT NULL REFERENCES tag(id),
		PRIMARY KEY (question_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_tags_tag_id ON question_tags(tag_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS "user" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username VARCHAR(80) NOT NULL UNIQUE,
		email VARCHAR(120) NOT NULL UNIQUE,
		password VARCHAR(200) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS question (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title VARCHAR(200) NOT NULL,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id INTEGER NOT NULL REFERENCES "user"(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_created_at ON question(created_at)`,
	`CREATE TABLE IF NOT EXISTS answer (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		body TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		user_id INTEGER NOT NULL REFERENCES "user"(id),
		question_id INTEGER NOT NULL REFERENCES question(id),
		upvotes INTEGER NOT NULL DEFAULT 0 CHECK (upvotes >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answer_question_id ON answer(question_id)`,
	`CREATE TABLE IF NOT EXISTS tag (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS question_tags (
		question_id INTEGER NOT NULL REFERENCES question(id),
		tag_id INTEGER NOT NULL REFERENCES tag(id),
		PRIMARY KEY (question_id, tag_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_question_tags_tag_id ON question_tags(tag_id)`,
}
