// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and cookie sessions.

# Passwords

Passwords are hashed with salted PBKDF2-HMAC-SHA256:

	hasher := auth.NewPasswordHasher(cfg.HashIterations)
	encoded, err := hasher.Hash(password)
	ok := auth.CheckPassword(encoded, password)

The encoded form is "pbkdf2:sha256:<iterations>$<salt>$<hex digest>". The
salt is 16 random alphanumeric characters. CheckPassword also accepts
sha512 digests and any iteration count, so hashes created with older
settings keep working. Digests are compared in constant time.

# Sessions

Sessions live in a cookie signed (HMAC) with the configured secret key,
via gorilla/sessions:

	sess := auth.NewSessions(cfg.SecretKey)
	err := sess.Login(w, r, auth.CurrentUser{ID: id, Username: name}, "Login successful!")
	user, ok := sess.Current(r)
	err = sess.Logout(w, r, "You have been logged out.")

The cookie holds two plain values, user_id and username, plus queued
flash messages. It is signed, not encrypted.

# Flash Messages

	sess.Flash(w, r, "Upvoted!")
	msgs := sess.PopFlashes(w, r) // one-shot

# Request Context

Middleware places the session user into the request context so handlers
never read the cookie themselves:

	ctx = auth.WithUser(ctx, user)
	user, ok := auth.UserFromContext(r.Context())
*/
package auth
