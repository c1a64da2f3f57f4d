// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the rows, view aggregates and form types shared by
the store, handlers and templates.

# Domain Types

Rows map one-to-one onto tables through sqlx `db` tags:

  - User: account with a hashed password
  - Question: title, body, author
  - Answer: body, author, parent question, upvote counter
  - Tag: unique name, attached to questions through question_tags

# View Types

Aggregates assembled by the store for rendering:

  - QuestionSummary: home page row (author, answer count, tags)
  - QuestionDetail: question page (author, tags, answers with authors)

# Form Types

Submitted forms carry go-playground/validator tags. Lengths match the
schema column limits:

	form := models.AskForm{Title: r.FormValue("title"), ...}
	err := validate.Struct(form)
*/
package models
