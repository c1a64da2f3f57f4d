// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers for the Quickly Ask forum.

# Handler Types

Each handler is a struct holding the store, the session store and the
page renderer:

  - AuthHandler: registration, login and logout
  - QuestionHandler: question list with search and tag filter, asking, viewing
  - AnswerHandler: posting answers and upvoting them
  - PageHandler: about page, 404 page and the JSON health check

Handlers are created via constructor functions:

	questions := handlers.NewQuestionHandler(st, sessions, renderer)

# Forms

Posted forms are trimmed, copied into the models form structs and checked
with go-playground/validator. The first failure becomes a flash message and
the user is sent back to the form with a 303.

# Login Gate

Ask, PostAnswer and Upvote read the user from the request context and
assume the router wrapped them in middleware.RequireLogin.

# Errors

  - Unknown question or answer id: rendered 404 page
  - Duplicate username, bad credentials, missing fields: flash message
  - Anything else, including constraint violations: logged, plain 500
*/
package handlers
