// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

var errInvalidHash = errors.New("invalid password hash format")

const (
	saltLength  = 16
	saltChars   = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	hashMethod  = "pbkdf2"
	hashDigest  = "sha256"
	maxSaltByte = 256 - 256%len(saltChars)
)

// PasswordHasher produces salted PBKDF2 hashes in the
// "pbkdf2:<digest>:<iterations>$<salt>$<hex>" layout.
type PasswordHasher struct {
	Iterations int
}

func NewPasswordHasher(iterations int) PasswordHasher {
	return PasswordHasher{Iterations: iterations}
}

// Hash returns the encoded hash of password with a fresh random salt.
func (h PasswordHasher) Hash(password string) (string, error) {
	if h.Iterations <= 0 {
		return "", fmt.Errorf("invalid iteration count %d", h.Iterations)
	}

	salt, err := generateSalt(saltLength)
	if err != nil {
		return "", err
	}

	sum := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("%s:%s:%d$%s$%s", hashMethod, hashDigest, h.Iterations, salt, hex.EncodeToString(sum)), nil
}

// CheckPassword reports whether password matches the encoded hash. The
// digest comparison is constant time.
func CheckPassword(encoded, password string) bool {
	newHash, iterations, salt, want, err := parseHash(encoded)
	if err != nil {
		return false
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func parseHash(encoded string) (func() hash.Hash, int, string, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return nil, 0, "", nil, errInvalidHash
	}
	method, salt, digestHex := parts[0], parts[1], parts[2]

	params := strings.Split(method, ":")
	if len(params) != 3 || params[0] != hashMethod {
		return nil, 0, "", nil, errInvalidHash
	}

	var newHash func() hash.Hash
	switch params[1] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	default:
		return nil, 0, "", nil, errInvalidHash
	}

	iterations, err := strconv.Atoi(params[2])
	if err != nil || iterations <= 0 {
		return nil, 0, "", nil, errInvalidHash
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return nil, 0, "", nil, errInvalidHash
	}

	return newHash, iterations, salt, digest, nil
}

// generateSalt draws n characters from saltChars. Bytes above the largest
// multiple of len(saltChars) are rejected to keep the distribution uniform.
func generateSalt(n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate salt: %w", err)
		}
		for _, b := range buf {
			if int(b) >= maxSaltByte {
				continue
			}
			out = append(out, saltChars[int(b)%len(saltChars)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
