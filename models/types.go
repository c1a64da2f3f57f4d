// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Column limits. The form validate tags repeat these numbers; types_test.go
// keeps them in step.
const (
	MaxUsernameLen = 80
	MaxEmailLen    = 120
	MaxTitleLen    = 200
	MaxTagNameLen  = 50
)

// Domain types

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Password string `db:"password"` // Hash, never plaintext
}

type Question struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int64     `db:"user_id"`
}

type Answer struct {
	ID         int64     `db:"id"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
	UserID     int64     `db:"user_id"`
	QuestionID int64     `db:"question_id"`
	Upvotes    int       `db:"upvotes"`
}

type Tag struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// View types

// QuestionSummary is one row of the home page list.
type QuestionSummary struct {
	Question
	Author      string `db:"author"`
	AnswerCount int    `db:"answer_count"`
	Tags        []Tag  `db:"-"`
}

type AnswerView struct {
	Answer
	Author string `db:"author"`
}

type QuestionDetail struct {
	Question
	Author  string       `db:"author"`
	Tags    []Tag        `db:"-"`
	Answers []AnswerView `db:"-"`
}

// QuestionFilter narrows the home page list. Empty fields are ignored.
type QuestionFilter struct {
	Query string
	Tag   string
}

// NewQuestion carries everything needed to create a question and its tags.
type NewQuestion struct {
	Title    string
	Body     string
	UserID   int64
	TagNames []string
}

type NewAnswer struct {
	Body       string
	UserID     int64
	QuestionID int64
}

// Form types

type RegisterForm struct {
	Username string `validate:"required,max=80"`
	Email    string `validate:"required,max=120"`
	Password string `validate:"required"`
}

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type AskForm struct {
	Title string `validate:"required,max=200"`
	Body  string `validate:"required"`
	Tags  string
}

type AnswerForm struct {
	Body string `validate:"required"`
}

// Response types

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
