// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/quickly-ask/db"
	"github.com/danielhkuo/quickly-ask/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// Store issues every query the handlers need. It holds no state besides
// the connection pool.
type Store struct {
	db *sqlx.DB
}

func New(conn *sqlx.DB) *Store {
	return &Store{db: conn}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func now() time.Time {
	return time.Now().UTC()
}

// Users

// CreateUser inserts a user whose password is already hashed. A taken
// username returns ErrUsernameTaken; a taken email is left to the unique
// constraint.
func (s *Store) CreateUser(ctx context.Context, u models.User) (int64, error) {
	var existing int64
	err := sqlx.GetContext(ctx, s.db, &existing, s.db.Rebind(`SELECT id FROM "user" WHERE username = ?`), u.Username)
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("db error: %w", err)
	}

	var id int64
	err = sqlx.GetContext(ctx, s.db, &id, s.db.Rebind(`
		INSERT INTO "user" (username, email, password)
		VALUES (?, ?, ?)
		RETURNING id
	`), u.Username, u.Email, u.Password)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := sqlx.GetContext(ctx, s.db, &u, s.db.Rebind(`
		SELECT id, username, email, password FROM "user" WHERE username = ?
	`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Questions

// CreateQuestion inserts the question and attaches its tags in one
// transaction, creating tags that do not exist yet.
func (s *Store) CreateQuestion(ctx context.Context, q models.NewQuestion) (int64, error) {
	var id int64
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		err := sqlx.GetContext(ctx, tx, &id, tx.Rebind(`
			INSERT INTO question (title, body, created_at, user_id)
			VALUES (?, ?, ?, ?)
			RETURNING id
		`), q.Title, q.Body, now(), q.UserID)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}

		for _, name := range q.TagNames {
			tagID, err := resolveTag(ctx, tx, name)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, tx.Rebind(`
				INSERT INTO question_tags (question_id, tag_id)
				VALUES (?, ?)
				ON CONFLICT DO NOTHING
			`), id, tagID)
			if err != nil {
				return fmt.Errorf("attach tag %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// resolveTag returns the id of the tag called name, creating it if needed.
func resolveTag(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO tag (name) VALUES (?)
		ON CONFLICT (name) DO NOTHING
	`), name)
	if err != nil {
		return 0, fmt.Errorf("create tag %q: %w", name, err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, tx, &id, tx.Rebind(`SELECT id FROM tag WHERE name = ?`), name); err != nil {
		return 0, fmt.Errorf("lookup tag %q: %w", name, err)
	}
	return id, nil
}

// ListQuestions returns questions matching f, newest first, each with its
// author, answer count and tags.
func (s *Store) ListQuestions(ctx context.Context, f models.QuestionFilter) ([]models.QuestionSummary, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" {
		pattern := "%" + escapeLike(f.Query) + "%"
		where = append(where, `(LOWER(q.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(q.body) LIKE LOWER(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if f.Tag != "" {
		where = append(where, `EXISTS (
			SELECT 1 FROM question_tags qt
			JOIN tag t ON t.id = qt.tag_id
			WHERE qt.question_id = q.id AND t.name = ?
		)`)
		args = append(args, f.Tag)
	}

	query := `
		SELECT q.id, q.title, q.body, q.created_at, q.user_id,
		       u.username AS author,
		       (SELECT COUNT(*) FROM answer a WHERE a.question_id = q.id) AS answer_count
		FROM question q
		JOIN "user" u ON u.id = q.user_id`
	if len(where) > 0 {
		query += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\t\tORDER BY q.created_at DESC, q.id DESC"

	questions := []models.QuestionSummary{}
	if err := sqlx.SelectContext(ctx, s.db, &questions, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return questions, nil
	}

	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	tags, err := s.tagsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Tags = tags[questions[i].ID]
	}

	return questions, nil
}

type questionTag struct {
	QuestionID int64 `db:"question_id"`
	models.Tag
}

// tagsFor loads the tags of several questions in one query, keyed by
// question id.
func (s *Store) tagsFor(ctx context.Context, questionIDs []int64) (map[int64][]models.Tag, error) {
	query, args, err := sqlx.In(`
		SELECT qt.question_id, t.id, t.name
		FROM question_tags qt
		JOIN tag t ON t.id = qt.tag_id
		WHERE qt.question_id IN (?)
		ORDER BY t.name
	`, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("build tag query: %w", err)
	}

	var rows []questionTag
	if err := sqlx.SelectContext(ctx, s.db, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}

	out := make(map[int64][]models.Tag, len(questionIDs))
	for _, r := range rows {
		out[r.QuestionID] = append(out[r.QuestionID], r.Tag)
	}
	return out, nil
}

// QuestionDetail loads one question with its tags and answers.
func (s *Store) QuestionDetail(ctx context.Context, id int64) (models.QuestionDetail, error) {
	var q models.QuestionDetail
	err := sqlx.GetContext(ctx, s.db, &q, s.db.Rebind(`
		SELECT q.id, q.title, q.body, q.created_at, q.user_id, u.username AS author
		FROM question q
		JOIN "user" u ON u.id = q.user_id
		WHERE q.id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QuestionDetail{}, ErrNotFound
	}
	if err != nil {
		return models.QuestionDetail{}, fmt.Errorf("db error: %w", err)
	}

	tags, err := s.tagsFor(ctx, []int64{id})
	if err != nil {
		return models.QuestionDetail{}, err
	}
	q.Tags = tags[id]

	q.Answers = []models.AnswerView{}
	err = sqlx.SelectContext(ctx, s.db, &q.Answers, s.db.Rebind(`
		SELECT a.id, a.body, a.created_at, a.user_id, a.question_id, a.upvotes,
		       u.username AS author
		FROM answer a
		JOIN "user" u ON u.id = a.user_id
		WHERE a.question_id = ?
		ORDER BY a.created_at, a.id
	`), id)
	if err != nil {
		return models.QuestionDetail{}, fmt.Errorf("load answers: %w", err)
	}

	return q, nil
}

// Tags

// AllTags returns every tag, ordered by name.
func (s *Store) AllTags(ctx context.Context) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := sqlx.SelectContext(ctx, s.db, &tags, `SELECT id, name FROM tag ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Answers

// CreateAnswer inserts an answer. The question is not checked first; a
// missing one fails on the foreign key.
func (s *Store) CreateAnswer(ctx context.Context, a models.NewAnswer) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, s.db, &id, s.db.Rebind(`
		INSERT INTO answer (body, created_at, user_id, question_id, upvotes)
		VALUES (?, ?, ?, ?, 0)
		RETURNING id
	`), a.Body, now(), a.UserID, a.QuestionID)
	if err != nil {
		return 0, fmt.Errorf("insert answer: %w", err)
	}
	return id, nil
}

// Upvote adds one to the answer's counter in a single statement, so
// concurrent upvotes never overwrite each other. It returns the parent
// question id.
func (s *Store) Upvote(ctx context.Context, answerID int64) (int64, error) {
	var questionID int64
	err := sqlx.GetContext(ctx, s.db, &questionID, s.db.Rebind(`
		UPDATE answer SET upvotes = upvotes + 1
		WHERE id = ?
		RETURNING question_id
	`), answerID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("upvote answer: %w", err)
	}
	return questionID, nil
}

// escapeLike makes %, _ and \ in s match literally under ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
